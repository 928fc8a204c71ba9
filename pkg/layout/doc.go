// Package layout assigns 2D coordinates to a parent-pointer forest.
//
// # Overview
//
// [Compute] takes an ordered slice of [tree.Node] values and a viewport size
// and returns a [Result] with one [Position] per node. The algorithm has two
// passes over a per-call [tree.Forest]:
//
//  1. Depth: roots sit at depth 0 and every child one level below its parent.
//     Depth maps to the horizontal axis.
//  2. Slot: leaves take consecutive slots 0, 1, 2, ... in depth-first order
//     (roots in input order, children in input order). An internal node's
//     slot is the mean of its direct children's slots, which centers a parent
//     against its children. Slot maps to the vertical axis.
//
// Both passes are iterative and linear in the number of nodes.
//
// # Coordinates
//
//	x = marginX + depth/max(1, maxDepth) * usableW
//	y = marginY + (slot-minSlot)/(maxSlot-minSlot) * usableH
//
// where usableW and usableH are the viewport size minus both margins,
// clamped to at least 1. When every node has the same slot, y is marginY,
// except for a lone node, which sits at the midpoint of the usable band.
// Default margins are 40 (horizontal) and 60
// (vertical); use [WithMargins] to override.
//
// # Recovery
//
// Compute never fails. A parent that is not in the node set makes the node
// an extra root, a zero, negative or non-finite viewport clamps the usable area to 1px
// per axis, and an empty node slice yields an empty result. See [tree.Build]
// for the full list of recoveries.
//
// Slots are not collision-checked: a parent of two uneven subtrees may share
// a slot value with a leaf in a neighbouring subtree.
//
// # Serialization
//
// [Result.Export] converts a result into a [graph.Layout] document and
// [Parse] reads one back.
//
// [tree.Node]: github.com/matzehuels/degreetree/pkg/tree.Node
// [tree.Forest]: github.com/matzehuels/degreetree/pkg/tree.Forest
// [tree.Build]: github.com/matzehuels/degreetree/pkg/tree.Build
// [graph.Layout]: github.com/matzehuels/degreetree/pkg/graph.Layout
package layout
