package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
)

func sampleTree(id string) graph.Tree {
	return graph.Tree{
		ID:    id,
		Title: "Degree Path",
		Nodes: []graph.Node{
			{ID: "cse121", Label: "CSE 121", Status: "completed"},
			{ID: "cse122", Label: "CSE 122", Parent: "cse121", Status: "completed"},
			{ID: "cse123", Label: "CSE 123", Parent: "cse122", Status: "in-progress"},
		},
	}
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close(ctx)

			want := sampleTree("uw-cse")
			if err := s.Put(ctx, want); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, err := s.Get(ctx, "uw-cse")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.ID != want.ID || got.Title != want.Title {
				t.Errorf("Get = %q/%q, want %q/%q", got.ID, got.Title, want.ID, want.Title)
			}
			if !slices.Equal(got.Nodes, want.Nodes) {
				t.Errorf("Get nodes = %+v, want %+v", got.Nodes, want.Nodes)
			}

			want.Title = "Renamed"
			if err := s.Put(ctx, want); err != nil {
				t.Fatalf("Put replace: %v", err)
			}
			got, _ = s.Get(ctx, "uw-cse")
			if got.Title != "Renamed" {
				t.Errorf("after replace Title = %q, want Renamed", got.Title)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "nope")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
			if code := apperrors.GetCode(err); code != apperrors.ErrCodeTreeNotFound {
				t.Errorf("code = %q, want %q", code, apperrors.ErrCodeTreeNotFound)
			}
		})
	}
}

func TestStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"b", "a", "c"} {
				if err := s.Put(ctx, sampleTree(id)); err != nil {
					t.Fatalf("Put(%s): %v", id, err)
				}
			}

			ids, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if want := []string{"a", "b", "c"}; !slices.Equal(ids, want) {
				t.Errorf("List = %v, want %v", ids, want)
			}

			if err := s.Delete(ctx, "b"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := s.Delete(ctx, "b"); err != nil {
				t.Errorf("Delete missing: %v", err)
			}
			ids, _ = s.List(ctx)
			if want := []string{"a", "c"}; !slices.Equal(ids, want) {
				t.Errorf("List after delete = %v, want %v", ids, want)
			}
		})
	}
}

func TestStorePutRejectsBadID(t *testing.T) {
	ctx := context.Background()
	ids := []string{"", "../etc", "a/b", ".hidden"}
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range ids {
				err := s.Put(ctx, sampleTree(id))
				if apperrors.GetCode(err) != apperrors.ErrCodeInvalidTree {
					t.Errorf("Put(%q) err = %v, want INVALID_TREE", id, err)
				}
			}
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := sampleTree("t")
	if err := s.Put(ctx, doc); err != nil {
		t.Fatal(err)
	}
	doc.Nodes[0].Label = "mutated"

	got, _ := s.Get(ctx, "t")
	if got.Nodes[0].Label != "CSE 121" {
		t.Errorf("stored tree changed through caller slice: %q", got.Nodes[0].Label)
	}
	got.Nodes[1].Label = "mutated"
	again, _ := s.Get(ctx, "t")
	if again.Nodes[1].Label != "CSE 122" {
		t.Errorf("stored tree changed through returned slice: %q", again.Nodes[1].Label)
	}
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", s.Dir(), dir)
	}
	if err := s.Put(ctx, sampleTree("uw")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "uw.json")); err != nil {
		t.Errorf("expected uw.json on disk: %v", err)
	}

	// Non-JSON files are ignored by List.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	ids, _ := s.List(ctx)
	if !slices.Equal(ids, []string{"uw"}) {
		t.Errorf("List = %v, want [uw]", ids)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(default) = %T, want *MemoryStore", s)
	}

	s, err = Open(ctx, Options{Backend: BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open(file) = %T, want *FileStore", s)
	}

	if _, err := Open(ctx, Options{Backend: BackendMongo}); apperrors.GetCode(err) != apperrors.ErrCodeInvalidConfig {
		t.Errorf("Open(mongo) without uri err = %v, want INVALID_CONFIG", err)
	}
	if _, err := Open(ctx, Options{Backend: "sqlite"}); apperrors.GetCode(err) != apperrors.ErrCodeInvalidConfig {
		t.Errorf("Open(sqlite) err = %v, want INVALID_CONFIG", err)
	}
}
