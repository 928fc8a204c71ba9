package graph

import (
	"github.com/matzehuels/degreetree/pkg/tree"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Document formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Rendering styles.
const (
	StyleNative   = "native"   // Built-in SVG renderer honouring the camera
	StyleGraphviz = "graphviz" // Graphviz dot layout
)

// =============================================================================
// Tree - Degree Path Document
// =============================================================================

// Tree is the canonical serialization format for a prerequisite forest.
// Used for files, API bodies, document storage and caching.
//
// Node order is preserved across every format, since it drives traversal
// order during layout.
type Tree struct {
	ID    string `json:"id,omitempty" bson:"_id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Title string `json:"title,omitempty" bson:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`
	Nodes []Node `json:"nodes" bson:"nodes" toml:"nodes" yaml:"nodes"`
}

// =============================================================================
// Node - Course Record
// =============================================================================

// Node is the serialized form of a [tree.Node].
type Node struct {
	ID          string `json:"id" bson:"id" toml:"id" yaml:"id"`
	Label       string `json:"label,omitempty" bson:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	FullTitle   string `json:"full_title,omitempty" bson:"full_title,omitempty" toml:"full_title,omitempty" yaml:"full_title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
	Parent      string `json:"parent,omitempty" bson:"parent,omitempty" toml:"parent,omitempty" yaml:"parent,omitempty"`
	Status      string `json:"status,omitempty" bson:"status,omitempty" toml:"status,omitempty" yaml:"status,omitempty"`
}

// =============================================================================
// Tree ↔ Node Conversion
// =============================================================================

// FromNodes builds a document from in-memory nodes, preserving order.
func FromNodes(id, title string, nodes []tree.Node) Tree {
	out := Tree{ID: id, Title: title, Nodes: make([]Node, len(nodes))}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:          n.ID,
			Label:       n.Label,
			FullTitle:   n.FullTitle,
			Description: n.Description,
			Parent:      n.Parent,
			Status:      string(n.Status),
		}
	}
	return out
}

// TreeNodes returns the document's nodes as [tree.Node] values.
// Status strings are copied as-is; renderers map unknown tags to planned.
func (t Tree) TreeNodes() []tree.Node {
	out := make([]tree.Node, len(t.Nodes))
	for i, n := range t.Nodes {
		out[i] = tree.Node{
			ID:          n.ID,
			Label:       n.Label,
			FullTitle:   n.FullTitle,
			Description: n.Description,
			Parent:      n.Parent,
			Status:      tree.Status(n.Status),
		}
	}
	return out
}
