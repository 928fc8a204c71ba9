package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/degreetree/pkg/tree"
)

const (
	DefaultMarginX = 40.0
	DefaultMarginY = 60.0
)

// Position is the computed placement of a single node.
type Position struct {
	X, Y  float64 // Pixel coordinates, origin at top-left
	Depth int     // Edge count from the node's root
	Slot  float64 // Breadth coordinate before scaling
}

// Result maps node identifiers to positions for one viewport.
// A Result is a value; Compute always returns a fresh one.
type Result struct {
	Positions map[string]Position

	Width, Height    float64 // Viewport passed to Compute
	MarginX, MarginY float64

	MaxDepth         int
	MinSlot, MaxSlot float64
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Edge is a parent to child link between two laid-out nodes.
type Edge struct {
	From, To string
}

type options struct {
	marginX, marginY float64
}

// Option configures [Compute].
type Option func(*options)

// WithMargins sets the horizontal and vertical margins in pixels.
func WithMargins(x, y float64) Option {
	return func(o *options) {
		o.marginX = x
		o.marginY = y
	}
}

// Compute lays out nodes in a width x height viewport.
func Compute(nodes []tree.Node, width, height float64, opts ...Option) Result {
	o := options{marginX: DefaultMarginX, marginY: DefaultMarginY}
	for _, opt := range opts {
		opt(&o)
	}

	f := tree.Build(nodes)
	res := Result{
		Positions: make(map[string]Position, f.Len()),
		Width:     width,
		Height:    height,
		MarginX:   o.marginX,
		MarginY:   o.marginY,
	}
	if f.Len() == 0 {
		return res
	}

	depth, slot := assign(f)

	res.MinSlot, res.MaxSlot = slot[0], slot[0]
	for h := range depth {
		res.MaxDepth = max(res.MaxDepth, depth[h])
		res.MinSlot = min(res.MinSlot, slot[h])
		res.MaxSlot = max(res.MaxSlot, slot[h])
	}

	usableW := clampExtent(width - 2*o.marginX)
	usableH := clampExtent(height - 2*o.marginY)
	depthSpan := float64(max(1, res.MaxDepth))
	slotSpan := res.MaxSlot - res.MinSlot

	for h := range depth {
		x := o.marginX + float64(depth[h])/depthSpan*usableW
		y := o.marginY
		switch {
		case slotSpan > 0:
			y += (slot[h] - res.MinSlot) / slotSpan * usableH
		case f.Len() == 1:
			y += usableH / 2
		}
		res.Positions[f.At(h).ID] = Position{X: x, Y: y, Depth: depth[h], Slot: slot[h]}
	}
	return res
}

// clampExtent keeps a usable extent finite and at least 1px.
func clampExtent(v float64) float64 {
	if !(v >= 1) || math.IsInf(v, 0) {
		return 1
	}
	return v
}

// assign walks the forest once, depth-first, setting depths on the way down
// and slots on the way up.
func assign(f *tree.Forest) (depth []int, slot []float64) {
	n := f.Len()
	depth = make([]int, n)
	slot = make([]float64, n)

	type frame struct {
		h    int
		next int // index of the next child to visit
	}
	stack := make([]frame, 0, n)
	var leaf float64

	for _, root := range f.RootHandles() {
		stack = append(stack, frame{h: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			kids := f.ChildHandles(top.h)

			if top.next < len(kids) {
				c := kids[top.next]
				top.next++
				depth[c] = depth[top.h] + 1
				stack = append(stack, frame{h: c})
				continue
			}

			if len(kids) == 0 {
				slot[top.h] = leaf
				leaf++
			} else {
				var sum float64
				for _, c := range kids {
					sum += slot[c]
				}
				slot[top.h] = sum / float64(len(kids))
			}
			stack = stack[:len(stack)-1]
		}
	}
	return depth, slot
}

// Len returns the number of positioned nodes.
func (r Result) Len() int { return len(r.Positions) }

// Position returns the position of id.
func (r Result) Position(id string) (Position, bool) {
	p, ok := r.Positions[id]
	return p, ok
}

// IDs returns the positioned identifiers in sorted order.
func (r Result) IDs() []string {
	ids := make([]string, 0, len(r.Positions))
	for id := range r.Positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Bounds returns the bounding box of all positions. An empty result has a
// zero Rect.
func (r Result) Bounds() Rect {
	var b Rect
	first := true
	for _, p := range r.Positions {
		if first {
			b = Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			first = false
			continue
		}
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// Edges returns the effective parent to child links of nodes whose endpoints
// both have a position in r, ordered by child input position.
func (r Result) Edges(nodes []tree.Node) []Edge {
	var out []Edge
	for _, e := range tree.Build(nodes).Edges() {
		if _, ok := r.Positions[e[0]]; !ok {
			continue
		}
		if _, ok := r.Positions[e[1]]; !ok {
			continue
		}
		out = append(out, Edge{From: e[0], To: e[1]})
	}
	return out
}
