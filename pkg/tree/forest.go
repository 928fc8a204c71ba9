package tree

import (
	"fmt"
	"slices"
)

// IssueKind classifies a recovered structural problem.
type IssueKind int

const (
	// IssueMissingParent marks a node whose parent is not in the set.
	// The node is laid out as an additional root.
	IssueMissingParent IssueKind = iota
	// IssueDuplicateID marks a later node reusing an earlier identifier.
	// The later node is dropped.
	IssueDuplicateID
	// IssueEmptyID marks a node without an identifier. It is dropped.
	IssueEmptyID
	// IssueCycle marks a node whose parent chain loops. The node is
	// promoted to a root to break the loop.
	IssueCycle
)

// String returns a short name for the kind.
func (k IssueKind) String() string {
	switch k {
	case IssueMissingParent:
		return "missing-parent"
	case IssueDuplicateID:
		return "duplicate-id"
	case IssueEmptyID:
		return "empty-id"
	case IssueCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// Issue is a structural problem that [Build] recovered from.
type Issue struct {
	Kind   IssueKind
	NodeID string
	Parent string // Declared parent, when relevant
	Index  int    // Position of the offending node in the input slice
}

// String describes the issue for humans.
func (i Issue) String() string {
	switch i.Kind {
	case IssueMissingParent:
		return fmt.Sprintf("node %q: parent %q not found, treated as root", i.NodeID, i.Parent)
	case IssueDuplicateID:
		return fmt.Sprintf("node %q at index %d: duplicate id, ignored", i.NodeID, i.Index)
	case IssueEmptyID:
		return fmt.Sprintf("node at index %d: empty id, ignored", i.Index)
	case IssueCycle:
		return fmt.Sprintf("node %q: parent chain through %q loops, treated as root", i.NodeID, i.Parent)
	default:
		return fmt.Sprintf("node %q: %s", i.NodeID, i.Kind)
	}
}

// Forest is the read-only arena built from a node slice for one pass.
//
// Handles are integers in [0, Len()). Handle order matches input order after
// dropping empty and duplicate identifiers.
//
// The zero value is an empty forest. A Forest is safe for concurrent reads.
type Forest struct {
	nodes    []Node
	pos      []int // input slice position of each handle
	index    map[string]int
	parent   []int   // effective parent handle, -1 for roots
	children [][]int // child handles in input order
	roots    []int   // root handles in input order
	issues   []Issue
}

// Build indexes nodes into a new Forest, recovering from malformed input.
// Build runs in O(N) time and never fails.
func Build(nodes []Node) *Forest {
	f := &Forest{
		nodes: make([]Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}

	for i, n := range nodes {
		if n.ID == "" {
			f.issues = append(f.issues, Issue{Kind: IssueEmptyID, Index: i})
			continue
		}
		if _, dup := f.index[n.ID]; dup {
			f.issues = append(f.issues, Issue{Kind: IssueDuplicateID, NodeID: n.ID, Index: i})
			continue
		}
		f.index[n.ID] = len(f.nodes)
		f.nodes = append(f.nodes, n)
		f.pos = append(f.pos, i)
	}

	f.parent = make([]int, len(f.nodes))
	f.children = make([][]int, len(f.nodes))
	for h, n := range f.nodes {
		f.parent[h] = -1
		if n.Parent == "" {
			f.roots = append(f.roots, h)
			continue
		}
		p, ok := f.index[n.Parent]
		if !ok {
			f.issues = append(f.issues, Issue{Kind: IssueMissingParent, NodeID: n.ID, Parent: n.Parent, Index: f.pos[h]})
			f.roots = append(f.roots, h)
			continue
		}
		f.parent[h] = p
		f.children[p] = append(f.children[p], h)
	}

	f.breakCycles()
	return f
}

// breakCycles promotes loop members to roots until every node is reachable
// from some root. Only nodes on or below a parent loop can be unreachable in
// a single-parent structure; for each loop the member with the lowest handle
// is promoted.
func (f *Forest) breakCycles() {
	reached := make([]bool, len(f.nodes))
	stack := make([]int, 0, len(f.nodes))
	mark := func(start int) {
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			h := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if reached[h] {
				continue
			}
			reached[h] = true
			stack = append(stack, f.children[h]...)
		}
	}
	for _, r := range f.roots {
		mark(r)
	}

	// walk[h] holds the 1-based start handle of the parent walk that last
	// visited h, so a repeat within one walk identifies a loop member.
	walk := make([]int, len(f.nodes))
	var promoted bool
	for start := range f.nodes {
		if reached[start] {
			continue
		}
		c := start
		for walk[c] != start+1 {
			walk[c] = start + 1
			c = f.parent[c]
		}
		h := c
		for m := f.parent[c]; m != c; m = f.parent[m] {
			h = min(h, m)
		}

		p := f.parent[h]
		f.children[p] = slices.DeleteFunc(f.children[p], func(c int) bool { return c == h })
		f.parent[h] = -1
		f.roots = append(f.roots, h)
		f.issues = append(f.issues, Issue{Kind: IssueCycle, NodeID: f.nodes[h].ID, Parent: f.nodes[p].ID, Index: f.pos[h]})
		promoted = true
		mark(h)
	}

	// Promoted roots were appended out of input order.
	if promoted {
		slices.Sort(f.roots)
	}
}

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int { return len(f.nodes) }

// At returns the node with handle h.
func (f *Forest) At(h int) Node { return f.nodes[h] }

// Handle returns the handle of the node with the given ID.
func (f *Forest) Handle(id string) (int, bool) {
	h, ok := f.index[id]
	return h, ok
}

// Node returns the node with the given ID.
func (f *Forest) Node(id string) (Node, bool) {
	h, ok := f.index[id]
	if !ok {
		return Node{}, false
	}
	return f.nodes[h], true
}

// Nodes returns the indexed nodes in handle order.
// The returned slice is a copy.
func (f *Forest) Nodes() []Node { return slices.Clone(f.nodes) }

// RootHandles returns root handles in input order.
// The returned slice must not be modified.
func (f *Forest) RootHandles() []int { return f.roots }

// ChildHandles returns the child handles of h in input order.
// The returned slice must not be modified.
func (f *Forest) ChildHandles(h int) []int { return f.children[h] }

// ParentHandle returns the effective parent handle of h, or -1 for roots.
func (f *Forest) ParentHandle(h int) int { return f.parent[h] }

// Roots returns root identifiers in input order.
func (f *Forest) Roots() []string { return f.ids(f.roots) }

// Children returns the child identifiers of id in input order.
// Unknown IDs have no children.
func (f *Forest) Children(id string) []string {
	h, ok := f.index[id]
	if !ok {
		return nil
	}
	return f.ids(f.children[h])
}

// Parent returns the effective parent of id. It reports false for roots,
// including nodes whose declared parent was missing or looped.
func (f *Forest) Parent(id string) (string, bool) {
	h, ok := f.index[id]
	if !ok || f.parent[h] < 0 {
		return "", false
	}
	return f.nodes[f.parent[h]].ID, true
}

// IsLeaf reports whether id has no children in the forest.
func (f *Forest) IsLeaf(id string) bool {
	h, ok := f.index[id]
	return ok && len(f.children[h]) == 0
}

// Issues returns the problems recovered while building the forest, in the
// order they were found.
func (f *Forest) Issues() []Issue { return slices.Clone(f.issues) }

// Edges returns (parent, child) identifier pairs for every effective edge,
// ordered by child handle.
func (f *Forest) Edges() [][2]string {
	var out [][2]string
	for h, p := range f.parent {
		if p >= 0 {
			out = append(out, [2]string{f.nodes[p].ID, f.nodes[h].ID})
		}
	}
	return out
}

func (f *Forest) ids(handles []int) []string {
	out := make([]string, len(handles))
	for i, h := range handles {
		out[i] = f.nodes[h].ID
	}
	return out
}
