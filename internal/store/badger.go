// Package store persists study trees and keeps the set of open tabs.
//
// Snapshots are JSON documents keyed "tab/<id>". Two backends implement
// domain.Persister: Badger (embedded, on disk or in memory) and Memory.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

const keyPrefix = "tab/"

func tabKey(id string) []byte { return []byte(keyPrefix + id) }

// BadgerConfig holds configuration for the embedded database.
type BadgerConfig struct {
	// Path is the directory for database files. Ignored when InMemory is true.
	Path     string
	InMemory bool
	// SyncWrites fsyncs every commit.
	SyncWrites bool
	// GCInterval is how often value log GC runs. Zero disables it.
	GCInterval     time.Duration
	GCDiscardRatio float64
	Logger         *slog.Logger
}

func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryBadgerConfig is meant for tests: no disk I/O, no GC.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Badger stores tab snapshots in BadgerDB.
//
// Thread Safety: safe for concurrent use.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

var _ domain.Persister = (*Badger)(nil)

// OpenBadger opens the database and starts value log GC when configured.
// The caller must Close it.
func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
		logger = slog.Default()
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	b := &Badger{
		db:     db,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		go b.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	} else {
		close(b.doneCh)
	}
	return b, nil
}

func (b *Badger) Save(ctx context.Context, id string, st *domain.TreeState) (err error) {
	defer func() { observe("save", err) }()
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode tab %s: %w", id, err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tabKey(id), data)
	})
	if err != nil {
		return fmt.Errorf("save tab %s: %w", id, err)
	}
	return nil
}

func (b *Badger) Load(ctx context.Context, id string) (st *domain.TreeState, err error) {
	defer func() { observe("load", err) }()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tabKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("load tab %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load tab %s: %w", id, err)
	}
	return decodeState(id, data)
}

func (b *Badger) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("delete", err) }()
	if err := ctx.Err(); err != nil {
		return err
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(tabKey(id))
	})
	if err != nil {
		return fmt.Errorf("delete tab %s: %w", id, err)
	}
	return nil
}

// List returns the ids of all stored tabs, sorted.
func (b *Badger) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close stops GC and closes the database.
func (b *Badger) Close() error {
	b.stopOnce.Do(func() { close(b.stopCh) })
	<-b.doneCh
	return b.db.Close()
}

func (b *Badger) runGC(interval time.Duration, ratio float64) {
	defer close(b.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			// ErrNoRewrite means nothing was worth collecting
			if err := b.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				b.logger.Warn("badger value log GC error", slog.String("error", err.Error()))
			}
		}
	}
}

func decodeState(id string, data []byte) (*domain.TreeState, error) {
	var st domain.TreeState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode tab %s: %w", id, err)
	}
	if st.Root == nil {
		return nil, fmt.Errorf("decode tab %s: missing root", id)
	}
	return &st, nil
}
