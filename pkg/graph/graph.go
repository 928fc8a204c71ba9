package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
)

// =============================================================================
// Tree Serialization API
// =============================================================================

// FormatFromPath picks a document format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat,
			"unsupported tree file extension %q (use .json, .toml, .yaml)", filepath.Ext(path))
	}
}

// MarshalTree encodes a tree document in the given format.
func MarshalTree(t Tree, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTree(t, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTree decodes a tree document in the given format.
func UnmarshalTree(data []byte, format string) (Tree, error) {
	return ReadTree(bytes.NewReader(data), format)
}

// WriteTree encodes a tree document to w.
func WriteTree(t Tree, w io.Writer, format string) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(t)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(t)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(t); err == nil {
			err = enc.Close()
		}
	default:
		return unknownFormat(format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// ReadTree decodes a tree document from r.
// A document with no nodes is valid and yields an empty tree.
func ReadTree(r io.Reader, format string) (Tree, error) {
	var t Tree
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&t)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&t)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&t)
		if err == io.EOF {
			err = nil
		}
	default:
		return Tree{}, unknownFormat(format)
	}
	if err != nil {
		return Tree{}, apperrors.Wrap(apperrors.ErrCodeInvalidTree, err, "decode %s tree", format)
	}
	return t, nil
}

// ReadTreeFile reads a tree document, picking the format by extension.
func ReadTreeFile(path string) (Tree, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Tree{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Tree{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTree(f, format)
	if err != nil {
		return Tree{}, fmt.Errorf("%s: %w", path, err)
	}
	if t.ID == "" {
		t.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// WriteTreeFile writes a tree document, picking the format by extension.
func WriteTreeFile(t Tree, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := MarshalTree(t, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func unknownFormat(format string) error {
	return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown tree format %q", format)
}
