package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

// Registry owns the tree stores of the open tabs. Tabs share nothing; the
// registry only maps ids to stores and decides when snapshots are written.
//
// Thread Safety: safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	persister domain.Persister
	oracle    domain.Oracle
	opts      []domain.Option
	logger    *slog.Logger
	tabs      map[string]*tab
}

type tab struct {
	store *domain.Store
	saved uint64
}

// NewRegistry builds stores with oracle and opts. persister may be nil, in which
// case nothing is written.
func NewRegistry(persister domain.Persister, oracle domain.Oracle, logger *slog.Logger, opts ...domain.Option) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		persister: persister,
		oracle:    oracle,
		opts:      opts,
		logger:    logger,
		tabs:      make(map[string]*tab),
	}
}

// Open creates a new tab starting at fen (the standard position when empty).
func (r *Registry) Open(fen string) *domain.Store {
	id := uuid.NewString()
	opts := append([]domain.Option{domain.WithLogger(r.logger)}, r.opts...)
	if fen != "" {
		opts = append(opts, domain.WithFEN(fen))
	}
	s := domain.New(id, r.oracle, opts...)

	r.mu.Lock()
	r.tabs[id] = &tab{store: s}
	r.mu.Unlock()
	r.logger.Debug("tab opened", slog.String("tab", id))
	return s
}

// Restore loads a persisted tab, or returns it directly when already open.
func (r *Registry) Restore(ctx context.Context, id string) (*domain.Store, error) {
	r.mu.Lock()
	if t, ok := r.tabs[id]; ok {
		r.mu.Unlock()
		return t.store, nil
	}
	r.mu.Unlock()

	if r.persister == nil {
		return nil, fmt.Errorf("restore tab %s: %w", id, ErrNotFound)
	}
	st, err := r.persister.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	opts := append([]domain.Option{domain.WithLogger(r.logger)}, r.opts...)
	opts = append(opts, domain.WithState(st))
	s := domain.New(id, r.oracle, opts...)

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tabs[id]; ok {
		return t.store, nil
	}
	r.tabs[id] = &tab{store: s, saved: s.Version()}
	return s, nil
}

func (r *Registry) Get(id string) (*domain.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tabs[id]
	if !ok {
		return nil, false
	}
	return t.store, true
}

// IDs lists the open tabs, sorted.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.tabs))
	for id := range r.tabs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Flush writes a snapshot of every tab whose version moved since its last save.
func (r *Registry) Flush(ctx context.Context) error {
	if r.persister == nil {
		return nil
	}
	r.mu.Lock()
	pending := make(map[string]*tab, len(r.tabs))
	for id, t := range r.tabs {
		pending[id] = t
	}
	r.mu.Unlock()

	var errs []error
	for id, t := range pending {
		if err := r.flushTab(ctx, id, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) flushTab(ctx context.Context, id string, t *tab) error {
	version := t.store.Version()
	r.mu.Lock()
	saved := t.saved
	r.mu.Unlock()
	if version == saved {
		return nil
	}
	if err := r.persister.Save(ctx, id, t.store.State()); err != nil {
		r.logger.Warn("tab snapshot failed", slog.String("tab", id), slog.String("error", err.Error()))
		return err
	}
	r.mu.Lock()
	if t.saved < version {
		t.saved = version
	}
	r.mu.Unlock()
	return nil
}

// Close drops a tab and its persisted snapshot. Tabs are not shared, so closing
// one is the end of its state.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	_, ok := r.tabs[id]
	delete(r.tabs, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("close tab %s: %w", id, ErrNotFound)
	}
	if r.persister == nil {
		return nil
	}
	return r.persister.Delete(ctx, id)
}
