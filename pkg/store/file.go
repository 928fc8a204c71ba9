package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
)

// FileStore stores each tree as <dir>/<id>.json.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store in dir.
// If dir is empty, defaults to ~/.config/degreetree/trees/
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "degreetree", "trees")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) treePath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (graph.Tree, error) {
	if err := apperrors.ValidateTreeID(id); err != nil {
		return graph.Tree{}, notFound(id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := graph.ReadTreeFile(s.treePath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return graph.Tree{}, notFound(id)
	}
	if err != nil {
		return graph.Tree{}, err
	}
	t.ID = id
	return t, nil
}

func (s *FileStore) Put(ctx context.Context, t graph.Tree) error {
	if err := apperrors.ValidateTreeID(t.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := graph.WriteTreeFile(t, s.treePath(t.ID)); err != nil {
		return fmt.Errorf("write tree %q: %w", t.ID, err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := apperrors.ValidateTreeID(id); err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.treePath(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove tree %q: %w", id, err)
	}
	return nil
}

func (s *FileStore) Close(context.Context) error { return nil }

// Dir returns the storage directory.
func (s *FileStore) Dir() string { return s.dir }

var _ Store = (*FileStore)(nil)
