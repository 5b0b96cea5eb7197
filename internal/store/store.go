// Package store implements the process-wide object store of the hbnb shell:
// an insertion-ordered map of live records keyed by "<Class>.<id>", loaded
// from a storage engine on Attach and written back in full on every Save.
package store

import (
	"fmt"
	"log/slog"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mesh-intelligence/hbnb/internal/jsonl"
	"github.com/mesh-intelligence/hbnb/internal/sqlite"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Store implements types.Store.
type Store struct {
	mu       sync.RWMutex
	attached bool
	registry *types.Registry
	logger   *slog.Logger
	engine   types.Engine
	objects  *orderedmap.OrderedMap[string, *types.Record]
}

var _ types.Store = (*Store)(nil)

// New creates a detached Store. Records of classes missing from registry are
// dropped on load.
func New(registry *types.Registry, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		registry: registry,
		logger:   logger,
		objects:  orderedmap.New[string, *types.Record](),
	}
}

// OpenEngine returns the storage engine selected by config.Backend.
func OpenEngine(config types.Config, logger *slog.Logger) (types.Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.Backend {
	case types.BackendSQLite:
		return sqlite.Open(config.DataDir, logger)
	default:
		return jsonl.Open(config.DataDir, logger)
	}
}

// Attach opens the engine described by config and loads its records.
func (s *Store) Attach(config types.Config) error {
	s.mu.RLock()
	attached := s.attached
	s.mu.RUnlock()
	if attached {
		return types.ErrAlreadyAttached
	}

	engine, err := OpenEngine(config, s.logger)
	if err != nil {
		return err
	}
	if err := s.AttachEngine(engine); err != nil {
		engine.Close()
		return err
	}
	s.logger.Debug("store attached", "backend", config.Backend, "data_dir", config.DataDir, "records", s.Len())
	return nil
}

// AttachEngine loads the records of an already opened engine. The Store owns
// the engine afterwards and closes it on Detach.
func (s *Store) AttachEngine(engine types.Engine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}

	records, err := engine.Load()
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	objects := orderedmap.New[string, *types.Record]()
	for _, r := range records {
		if !s.registry.Has(r.Class) {
			s.logger.Warn("skipping record of unknown class", "key", r.Key())
			continue
		}
		objects.Set(r.Key(), r)
	}

	s.engine = engine
	s.objects = objects
	s.attached = true
	return nil
}

// Detach closes the engine and drops every live record. Idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	err := s.engine.Close()
	s.engine = nil
	s.objects = orderedmap.New[string, *types.Record]()
	s.attached = false
	return err
}

// All returns every record in insertion order.
func (s *Store) All() []*types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Record, 0, s.objects.Len())
	for pair := s.objects.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects.Len()
}

// Get returns the record stored under key.
func (s *Store) Get(key string) (*types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.objects.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, key)
	}
	return r, nil
}

// New adds r under its key.
func (s *Store) New(r *types.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects.Set(r.Key(), r)
}

// Delete removes the record stored under key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects.Delete(key); !ok {
		return fmt.Errorf("%w: %s", types.ErrNotFound, key)
	}
	return nil
}

// Save writes every live record to the engine.
// Returns ErrStoreDetached if the store is not attached.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.ErrStoreDetached
	}

	records := make([]*types.Record, 0, s.objects.Len())
	for pair := s.objects.Oldest(); pair != nil; pair = pair.Next() {
		records = append(records, pair.Value)
	}
	if err := s.engine.Persist(records); err != nil {
		s.logger.Error("persist failed", "records", len(records), "error", err)
		return fmt.Errorf("saving store: %w", err)
	}
	s.logger.Debug("store saved", "records", len(records))
	return nil
}
