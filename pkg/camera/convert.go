package camera

import "github.com/matzehuels/degreetree/pkg/graph"

// Export converts a state to the serialization format.
func (s State) Export() *graph.Camera {
	return &graph.Camera{
		OffsetX:   s.OffsetX,
		OffsetY:   s.OffsetY,
		Scale:     s.Scale,
		FocusedID: s.FocusedID,
	}
}

// Parse converts a serialized camera back to a state. A nil camera yields
// the zero State, whose zero scale [Controller.Restore] replaces with the
// default.
func Parse(c *graph.Camera) State {
	if c == nil {
		return State{}
	}
	return State{
		OffsetX:   c.OffsetX,
		OffsetY:   c.OffsetY,
		Scale:     c.Scale,
		FocusedID: c.FocusedID,
	}
}
