package layout

import (
	"fmt"

	"github.com/matzehuels/degreetree/pkg/graph"
	"github.com/matzehuels/degreetree/pkg/tree"
)

// Export converts a result to the serialization format.
//
// nodes is optional; when given, labels, statuses and edges are included.
// Positions are sorted by ID.
func (r Result) Export(nodes []tree.Node) graph.Layout {
	out := graph.Layout{
		Width:     r.Width,
		Height:    r.Height,
		MarginX:   r.MarginX,
		MarginY:   r.MarginY,
		MaxDepth:  r.MaxDepth,
		Positions: make([]graph.Position, 0, len(r.Positions)),
	}

	byID := make(map[string]tree.Node, len(nodes))
	for _, n := range nodes {
		if _, dup := byID[n.ID]; !dup {
			byID[n.ID] = n
		}
	}

	for _, id := range r.IDs() {
		p := r.Positions[id]
		gp := graph.Position{ID: id, X: p.X, Y: p.Y, Depth: p.Depth, Slot: p.Slot}
		if n, ok := byID[id]; ok {
			gp.Label = n.DisplayLabel()
			gp.Status = string(n.Status.OrPlanned())
		}
		out.Positions = append(out.Positions, gp)
	}

	for _, e := range r.Edges(nodes) {
		out.Edges = append(out.Edges, graph.Edge{From: e.From, To: e.To})
	}
	return out
}

// Parse converts a serialized layout back into a Result.
// Slot bounds and maximum depth are recomputed from the positions.
func Parse(l graph.Layout) (Result, error) {
	r := Result{
		Positions: make(map[string]Position, len(l.Positions)),
		Width:     l.Width,
		Height:    l.Height,
		MarginX:   l.MarginX,
		MarginY:   l.MarginY,
	}
	for i, p := range l.Positions {
		if p.ID == "" {
			return Result{}, fmt.Errorf("position %d: empty id", i)
		}
		if _, dup := r.Positions[p.ID]; dup {
			return Result{}, fmt.Errorf("position %d: duplicate id %q", i, p.ID)
		}
		r.Positions[p.ID] = Position{X: p.X, Y: p.Y, Depth: p.Depth, Slot: p.Slot}

		if i == 0 {
			r.MinSlot, r.MaxSlot = p.Slot, p.Slot
		}
		r.MinSlot = min(r.MinSlot, p.Slot)
		r.MaxSlot = max(r.MaxSlot, p.Slot)
		r.MaxDepth = max(r.MaxDepth, p.Depth)
	}
	return r, nil
}
