package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Service handles the business logic for graph export and import against a
// single live graph, optionally backed by a snapshot store.
//
// The service serializes its own operations with an internal lock because
// the underlying graph is mutated in place and is not thread-safe. There is
// no transactional guarantee: a failed import leaves prior mutations
// applied.
type Service struct {
	graph  Graph
	store  SnapshotStore
	logger *slog.Logger

	mu         sync.RWMutex
	exports    int
	imports    int
	lastImport *time.Time
}

// NewService creates a new Service. The snapshot store may be nil, in which
// case only the in-memory operations are available.
func NewService(graph Graph, store SnapshotStore, logger *slog.Logger) *Service {
	return &Service{graph: graph, store: store, logger: logger}
}

// Graph returns the live graph this service operates on.
func (s *Service) Graph() Graph { return s.graph }

// Export produces an interchange snapshot of the topic with the given
// unique key.
func (s *Service) Export(ctx context.Context, uniqueKey string, opts ExportOptions) (*Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.graph.Lookup(uniqueKey)
	if !ok {
		return nil, fmt.Errorf("export %q: %w", uniqueKey, ErrTopicNotFound)
	}
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	n := Export(t, opts)
	s.exports++

	if s.logger != nil {
		s.logger.Debug("exported topic", "uniqueKey", uniqueKey, "children", len(n.Children))
	}
	return n, nil
}

// Import merges a snapshot onto the topic with the given unique key. An
// empty unique key targets the topic named by the snapshot itself.
func (s *Service) Import(ctx context.Context, uniqueKey string, n *Node, opts ImportOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importLocked(uniqueKey, n, opts)
}

func (s *Service) importLocked(uniqueKey string, n *Node, opts ImportOptions) error {
	if uniqueKey == "" {
		uniqueKey = n.UniqueKey
	}
	t, ok := s.graph.Lookup(uniqueKey)
	if !ok {
		return fmt.Errorf("import onto %q: %w", uniqueKey, ErrTopicNotFound)
	}
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	if err := Import(t, n, opts); err != nil {
		return err
	}
	s.imports++
	now := time.Now()
	s.lastImport = &now

	if s.logger != nil {
		s.logger.Debug("imported snapshot", "uniqueKey", uniqueKey, "strategy", opts.Strategy.String())
	}
	return nil
}

// ExportToStore exports a topic and saves the snapshot under the given
// store ID.
func (s *Service) ExportToStore(ctx context.Context, uniqueKey, id string, opts ExportOptions) error {
	if s.store == nil {
		return ErrNoStore
	}
	n, err := s.Export(ctx, uniqueKey, opts)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, id, n); err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", id, err)
	}
	return nil
}

// ImportFromStore loads the snapshot with the given store ID and merges it
// onto the topic with the given unique key (or the snapshot's own topic
// when uniqueKey is empty).
func (s *Service) ImportFromStore(ctx context.Context, uniqueKey, id string, opts ImportOptions) error {
	if s.store == nil {
		return ErrNoStore
	}
	n, err := s.store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load snapshot %q: %w", id, err)
	}
	return s.Import(ctx, uniqueKey, n, opts)
}

// Watch observes snapshot changes in the store if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, errors.New("snapshot store does not support watching")
	}
	return w.Watch(ctx, pattern)
}
