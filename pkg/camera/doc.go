// Package camera frames a laid-out forest: it keeps a pan offset and a zoom
// scale so that the focused node sits at the center of the viewport.
//
// # Overview
//
// A [Controller] owns a [State] (offset, scale, focused node) for one node
// set and one [layout.Result]. Every operation runs synchronously and leaves
// the controller in a definite target state; there are no intermediate
// animation values in the model.
//
// Focus-and-center runs whenever focus, scale, layout or viewport change:
//
//	OffsetX = Width/2  - x*Scale
//	OffsetY = Height/2 - y*Scale
//
// where (x, y) is the focused node's position. When the focus matches no
// position (empty node set, or a snapshot naming a removed node) recentering
// is skipped and the offset is left as is.
//
// # Input
//
//   - [Controller.Select] focuses a node and fires the selection callback
//     with the full record, also when the node is already focused.
//   - [Controller.Zoom] adds to the scale, clamped to [MinScale, MaxScale].
//   - [Controller.Wheel] maps a wheel delta to a zoom step of -deltaY/1000,
//     and leaves ctrl-wheel alone for the host (browser or terminal zoom).
//   - [Controller.SetLayout] adopts a new layout or viewport.
//   - [Controller.Load] adopts a new node set, resetting focus and scale when
//     the set's identity ([tree.Fingerprint]) changed.
//
// [Controller.Apply] runs a batch of [Event] values in order, each fully
// applied before the next.
//
// # Hosts
//
// A Controller is not safe for concurrent use. Stateless hosts (the HTTP
// server) persist [Controller.State] between requests and rebuild a
// controller with [Controller.Restore].
//
// # Transitions
//
// Renderers that animate between states use [Transition], which eases
// offset and scale towards the latest target with github.com/tanema/gween.
// A new target supersedes the one in flight; a zero duration snaps.
//
// [layout.Result]: github.com/matzehuels/degreetree/pkg/layout.Result
// [tree.Fingerprint]: github.com/matzehuels/degreetree/pkg/tree.Fingerprint
package camera
