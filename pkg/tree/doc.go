// Package tree provides the node record and the per-pass forest index used
// by the layout engine and the camera controller.
//
// # Overview
//
// A degree path is a forest of courses: each course names at most one
// prerequisite (its parent), and courses without a prerequisite are roots.
// Nodes arrive as an ordered slice of [Node] values. Order matters only for
// traversal (roots and children are visited in input order); identifiers are
// the only correlation key.
//
// # Forest
//
// [Build] indexes a node slice into a [Forest]: a read-only arena with
// integer handles, child lists in input order and the list of roots. Every
// layout pass builds its own forest, so passes never share mutable state.
//
// Malformed input is recovered rather than rejected:
//
//   - A parent that is not in the set makes the node an additional root.
//   - Duplicate identifiers keep the first occurrence.
//   - Nodes with an empty identifier are dropped.
//   - Parent chains that loop back on themselves are broken by promoting the
//     loop member that appears first in input order to a root.
//
// Each recovery is recorded as an [Issue] and available from
// [Forest.Issues]. Issues are informational; layout never fails on them.
//
// # Identity
//
// [Fingerprint] hashes identifiers and parent links into a stable 64-bit
// value. Hosts compare fingerprints to decide whether a newly supplied node
// slice is "a different tree" (which resets the camera) or the same tree
// with edited text.
package tree
