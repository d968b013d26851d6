// Package memory implements an in-process store backed by maps.
//
// It is the backend for graphs loaded from JSON or YAML files and for
// tests. Every method is safe for concurrent use; Snapshot holds the read
// lock for the duration of its callback, so writers wait until it returns.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
	"github.com/matzehuels/nestview/pkg/store"
)

// Store is an in-memory graph and settings store.
type Store struct {
	mu sync.RWMutex
	g  graph

	rules    []model.Rule
	diagrams map[string]model.DiagramOptions
	names    []string // diagram names in insertion order
	version  uint64
}

var (
	_ store.Repository = (*Store)(nil)
	_ store.Writer     = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		g:        newGraph(),
		diagrams: make(map[string]model.DiagramOptions),
	}
}

// FromGraph returns a store holding g.
func FromGraph(g model.Graph) *Store {
	s := New()
	s.g.load(g)
	return s
}

// Version increments on every write. It serves as a cheap fingerprint for
// [store.Watch].
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// =============================================================================
// GraphReader
// =============================================================================

func (s *Store) Entities(ctx context.Context) ([]model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.Entities(ctx)
}

func (s *Store) EntitiesByLabel(ctx context.Context, label string) ([]model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.EntitiesByLabel(ctx, label)
}

func (s *Store) Relationships(ctx context.Context) ([]model.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.Relationships(ctx)
}

func (s *Store) RelationshipsTouching(ctx context.Context, id string) ([]model.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.RelationshipsTouching(ctx, id)
}

func (s *Store) EntitiesByIDs(ctx context.Context, ids []string) ([]*model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g.EntitiesByIDs(ctx, ids)
}

// Snapshot calls fn with a reader over the current graph while holding the
// read lock.
func (s *Store) Snapshot(ctx context.Context, fn func(store.GraphReader) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(&s.g)
}

// =============================================================================
// SettingsReader
// =============================================================================

func (s *Store) Rules(context.Context) ([]model.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rules), nil
}

func (s *Store) EnabledRules(context.Context) ([]model.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.EnabledOnly(s.rules), nil
}

func (s *Store) Diagrams(context.Context) ([]model.DiagramOptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.DiagramOptions, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.diagrams[name])
	}
	return out, nil
}

func (s *Store) DiagramOptions(_ context.Context, name string) (model.DiagramOptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opts, ok := s.diagrams[name]
	if !ok {
		return model.DiagramOptions{}, errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
	}
	return opts, nil
}

// =============================================================================
// Writer
// =============================================================================

func (s *Store) Import(ctx context.Context, g model.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g.load(g)
	s.version++
	return nil
}

func (s *Store) PutRules(_ context.Context, rules []model.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = slices.Clone(rules)
	s.version++
	return nil
}

func (s *Store) PutDiagramOptions(_ context.Context, opts model.DiagramOptions) error {
	if opts.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "diagram name cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.diagrams[opts.Name]; !ok {
		s.names = append(s.names, opts.Name)
	}
	s.diagrams[opts.Name] = opts
	s.version++
	return nil
}
