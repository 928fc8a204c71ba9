package store

import (
	"context"
	"slices"
	"sync"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
)

// MemoryStore keeps trees in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	trees map[string]graph.Tree
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trees: make(map[string]graph.Tree)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (graph.Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trees[id]
	if !ok {
		return graph.Tree{}, notFound(id)
	}
	return cloneTree(t), nil
}

func (s *MemoryStore) Put(ctx context.Context, t graph.Tree) error {
	if err := apperrors.ValidateTreeID(t.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trees[t.ID] = cloneTree(t)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.trees))
	for id := range s.trees {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.trees, id)
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
