package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

// Memory keeps encoded snapshots in a map. It lives as long as the process,
// which is the session-scoped durability tabs need at minimum.
type Memory struct {
	mu   sync.RWMutex
	tabs map[string][]byte
}

var _ domain.Persister = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{tabs: make(map[string][]byte)}
}

func (m *Memory) Save(ctx context.Context, id string, st *domain.TreeState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	observe("save", err)
	if err != nil {
		return fmt.Errorf("encode tab %s: %w", id, err)
	}
	m.mu.Lock()
	m.tabs[id] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Load(ctx context.Context, id string) (*domain.TreeState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	data, ok := m.tabs[id]
	m.mu.RUnlock()
	if !ok {
		observe("load", ErrNotFound)
		return nil, fmt.Errorf("load tab %s: %w", id, ErrNotFound)
	}
	st, err := decodeState(id, data)
	observe("load", err)
	return st, err
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.tabs, id)
	m.mu.Unlock()
	observe("delete", nil)
	return nil
}

func (m *Memory) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	ids := make([]string, 0, len(m.tabs))
	for id := range m.tabs {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)
	return ids, nil
}
