package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/store"
)

// Load reads the tree named by source.
//
// A source with a tree file extension (.json, .toml, .yaml, .yml) is read
// from disk. Anything else is looked up as a tree ID in st, and then, if st
// is nil or has no such tree, tried as a file path.
func Load(ctx context.Context, st store.Store, source string) (graph.Tree, error) {
	if source == "" {
		return graph.Tree{}, apperrors.New(apperrors.ErrCodeInvalidInput, "source is required")
	}
	if _, err := graph.FormatFromPath(source); err == nil {
		return loadFile(source)
	}

	if st != nil && apperrors.ValidateTreeID(source) == nil {
		doc, err := st.Get(ctx, source)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return graph.Tree{}, err
		}
	}

	if _, err := os.Stat(source); err == nil {
		return graph.Tree{}, apperrors.New(apperrors.ErrCodeInvalidFormat,
			"%s: tree files need a .json, .toml, .yaml or .yml extension", source)
	}
	return graph.Tree{}, fmt.Errorf("%s: %w", source, store.ErrNotFound)
}

func loadFile(path string) (graph.Tree, error) {
	doc, err := graph.ReadTreeFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return graph.Tree{}, fmt.Errorf("%s: %w", path, store.ErrNotFound)
	}
	return doc, err
}
