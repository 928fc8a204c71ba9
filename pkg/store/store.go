// Package store persists tree documents by ID.
//
// # Backends
//
//   - [MemoryStore]: process-local, for tests and single-instance servers
//   - [FileStore]: one JSON file per tree under a directory
//   - [MongoStore]: a MongoDB collection, one document per tree
//
// All backends return [ErrNotFound] (wrapped) for missing trees and reject
// IDs that fail [apperrors.ValidateTreeID] before touching storage.
//
//	s, err := store.Open(ctx, store.Options{Backend: store.BackendFile, Dir: dir})
//	if err != nil {
//	    return err
//	}
//	defer s.Close(ctx)
//
//	if err := s.Put(ctx, doc); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"fmt"
	"slices"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
)

// ErrNotFound is returned (wrapped) when no tree has the requested ID.
var ErrNotFound = apperrors.New(apperrors.ErrCodeTreeNotFound, "tree not found")

// Store is the interface for tree document storage.
type Store interface {
	// Get returns the tree with the given ID.
	Get(ctx context.Context, id string) (graph.Tree, error)

	// Put creates or replaces a tree. The tree's ID is the key.
	Put(ctx context.Context, t graph.Tree) error

	// List returns all stored tree IDs, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes a tree. Deleting a missing tree is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
)

// DefaultMongoDatabase is used when Options.MongoDatabase is empty.
const DefaultMongoDatabase = "degreetree"

// Options selects and configures a backend.
type Options struct {
	Backend       string // memory, file or mongo; empty means memory
	Dir           string // file backend directory
	MongoURI      string // mongo connection string
	MongoDatabase string // mongo database name
}

// Open creates the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(opts.Dir)
	case BackendMongo:
		db := opts.MongoDatabase
		if db == "" {
			db = DefaultMongoDatabase
		}
		return NewMongoStore(ctx, opts.MongoURI, db)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown store backend %q", opts.Backend)
	}
}

func notFound(id string) error {
	return fmt.Errorf("tree %q: %w", id, ErrNotFound)
}

// cloneTree copies the node slice so callers never share backing arrays
// with stored documents.
func cloneTree(t graph.Tree) graph.Tree {
	t.Nodes = slices.Clone(t.Nodes)
	return t
}
