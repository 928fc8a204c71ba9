package tree

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
)

// ErrUnknownNode is returned when an operation names a node identifier that
// is not part of the current node set.
var ErrUnknownNode = apperrors.New(apperrors.ErrCodeNodeNotFound, "unknown node")

// Status is the progress tag of a course.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in-progress"
	StatusPlanned    Status = "planned"
)

// Valid reports whether s is one of the known status tags.
func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusInProgress, StatusPlanned:
		return true
	}
	return false
}

// OrPlanned returns s, or StatusPlanned when s is not a known tag.
func (s Status) OrPlanned() Status {
	if s.Valid() {
		return s
	}
	return StatusPlanned
}

// Node is a single course in the prerequisite forest.
//
// Nodes are values; nothing in this module mutates a Node after it has been
// supplied.
type Node struct {
	ID          string // Unique identifier
	Label       string // Short code shown on the diagram (e.g. "CSE 142")
	FullTitle   string // Optional long title
	Description string // Optional long-form text
	Parent      string // Optional prerequisite ID; empty means root
	Status      Status
}

// IsRoot reports whether the node declares no parent.
// A node whose declared parent is missing from the set is also laid out as
// a root, but IsRoot only looks at the record itself.
func (n Node) IsRoot() bool { return n.Parent == "" }

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Title returns the long title if set, otherwise the display label.
func (n Node) Title() string {
	if n.FullTitle != "" {
		return n.FullTitle
	}
	return n.DisplayLabel()
}

// DefaultFocus returns the identifier the camera starts on: the first node
// without a parent, else the first node, else "".
func DefaultFocus(nodes []Node) string {
	for _, n := range nodes {
		if n.IsRoot() {
			return n.ID
		}
	}
	if len(nodes) > 0 {
		return nodes[0].ID
	}
	return ""
}

// Find returns the first node with the given ID.
func Find(nodes []Node, id string) (Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Fingerprint hashes node identifiers and parent links in input order.
// Text fields and status do not contribute, so editing a description keeps
// the fingerprint stable while adding, removing or re-parenting a node
// changes it.
func Fingerprint(nodes []Node) uint64 {
	d := xxhash.New()
	for _, n := range nodes {
		_, _ = d.WriteString(n.ID)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(n.Parent)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// FingerprintString returns [Fingerprint] as a fixed-width hex string,
// suitable for cache keys.
func FingerprintString(nodes []Node) string {
	return fmt.Sprintf("%016x", Fingerprint(nodes))
}
