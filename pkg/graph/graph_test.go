package graph

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/tree"
)

const tomlTree = `
id = "cse"
title = "Degree Path"

[[nodes]]
id = "cse121"
label = "CSE 121"
status = "completed"

[[nodes]]
id = "cse122"
label = "CSE 122"
parent = "cse121"
status = "in-progress"

[[nodes]]
id = "cse123"
parent = "cse122"
`

const yamlTree = `
id: cse
title: Degree Path
nodes:
  - id: cse121
    label: CSE 121
    status: completed
  - id: cse122
    label: CSE 122
    parent: cse121
    status: in-progress
  - id: cse123
    parent: cse122
`

const jsonTree = `{
  "id": "cse",
  "title": "Degree Path",
  "nodes": [
    {"id": "cse121", "label": "CSE 121", "status": "completed"},
    {"id": "cse122", "label": "CSE 122", "parent": "cse121", "status": "in-progress"},
    {"id": "cse123", "parent": "cse122"}
  ]
}`

func TestUnmarshalTree(t *testing.T) {
	tests := []struct {
		format string
		data   string
	}{
		{FormatJSON, jsonTree},
		{FormatTOML, tomlTree},
		{FormatYAML, yamlTree},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := UnmarshalTree([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("UnmarshalTree: %v", err)
			}
			if got.ID != "cse" || got.Title != "Degree Path" {
				t.Errorf("header = %q/%q, want cse/Degree Path", got.ID, got.Title)
			}

			var ids []string
			for _, n := range got.Nodes {
				ids = append(ids, n.ID)
			}
			if want := []string{"cse121", "cse122", "cse123"}; !slices.Equal(ids, want) {
				t.Errorf("ids = %v, want %v", ids, want)
			}

			nodes := got.TreeNodes()
			if nodes[1].Parent != "cse121" || nodes[1].Status != tree.StatusInProgress {
				t.Errorf("nodes[1] = %+v", nodes[1])
			}
			if nodes[2].Status != "" {
				t.Errorf("nodes[2].Status = %q, want empty", nodes[2].Status)
			}
		})
	}
}

func TestUnmarshalTreeErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		format   string
		wantCode apperrors.Code
	}{
		{"BadJSON", "{", FormatJSON, apperrors.ErrCodeInvalidTree},
		{"BadTOML", "nodes = [", FormatTOML, apperrors.ErrCodeInvalidTree},
		{"BadYAML", "nodes: [", FormatYAML, apperrors.ErrCodeInvalidTree},
		{"UnknownFormat", "{}", "xml", apperrors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalTree([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := apperrors.GetCode(err); code != tt.wantCode {
				t.Errorf("code = %v, want %v", code, tt.wantCode)
			}
		})
	}
}

func TestUnmarshalTreeEmptyYAML(t *testing.T) {
	got, err := UnmarshalTree(nil, FormatYAML)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if len(got.Nodes) != 0 {
		t.Errorf("nodes = %d, want 0", len(got.Nodes))
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"tree.json", FormatJSON, false},
		{"tree.TOML", FormatTOML, false},
		{"dir/tree.yaml", FormatYAML, false},
		{"tree.yml", FormatYAML, false},
		{"tree.xml", "", true},
		{"tree", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestWriteTreeFilePreservesOrder(t *testing.T) {
	nodes := []tree.Node{
		{ID: "z", Label: "Z"},
		{ID: "a", Parent: "z", Status: tree.StatusCompleted, Description: "first child"},
		{ID: "m", Parent: "z"},
	}
	doc := FromNodes("order", "Order", nodes)

	for _, ext := range []string{".json", ".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "order"+ext)
			if err := WriteTreeFile(doc, path); err != nil {
				t.Fatalf("WriteTreeFile: %v", err)
			}
			got, err := ReadTreeFile(path)
			if err != nil {
				t.Fatalf("ReadTreeFile: %v", err)
			}
			if !slices.Equal(got.TreeNodes(), nodes) {
				t.Errorf("nodes = %+v, want %+v", got.TreeNodes(), nodes)
			}
		})
	}
}

func TestReadTreeFileDefaultsID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my-degree.json")
	if err := os.WriteFile(path, []byte(`{"nodes": [{"id": "a"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTreeFile(path)
	if err != nil {
		t.Fatalf("ReadTreeFile: %v", err)
	}
	if got.ID != "my-degree" {
		t.Errorf("ID = %q, want my-degree", got.ID)
	}
}

func TestReadTreeFileMissing(t *testing.T) {
	_, err := ReadTreeFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "nope.json") {
		t.Errorf("err = %v, want mention of path", err)
	}
}

func TestLayoutFile(t *testing.T) {
	l := Layout{
		Width:  800,
		Height: 320,
		Positions: []Position{
			{ID: "a", X: 40, Y: 160},
			{ID: "b", X: 760, Y: 60, Depth: 1, Slot: 0},
		},
		Edges:  []Edge{{From: "a", To: "b"}},
		Camera: &Camera{OffsetX: 360, Scale: 1, FocusedID: "a"},
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if len(got.Positions) != 2 || got.Positions[1].Depth != 1 {
		t.Errorf("positions = %+v", got.Positions)
	}
	if got.Camera == nil || got.Camera.FocusedID != "a" {
		t.Errorf("camera = %+v", got.Camera)
	}
}

func TestUnmarshalLayoutRejectsMissingID(t *testing.T) {
	_, err := UnmarshalLayout([]byte(`{"positions": [{"x": 1}]}`))
	if err == nil {
		t.Fatal("expected error for position without id")
	}
}
