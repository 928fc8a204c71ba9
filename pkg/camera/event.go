package camera

import (
	"fmt"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/tree"
)

// EventKind names a camera input.
type EventKind string

const (
	EventSelect    EventKind = "select"
	EventZoom      EventKind = "zoom"
	EventWheel     EventKind = "wheel"
	EventSetLayout EventKind = "set_layout"
	EventLoad      EventKind = "load"
)

// Event is one queued camera input. Only the fields relevant to Kind are
// read.
type Event struct {
	Kind   EventKind
	NodeID string        // select
	Delta  float64       // zoom
	DeltaY float64       // wheel
	Ctrl   bool          // wheel
	Nodes  []tree.Node   // load
	Layout layout.Result // set_layout, load
}

// SelectEvent queues [Controller.Select].
func SelectEvent(id string) Event { return Event{Kind: EventSelect, NodeID: id} }

// ZoomEvent queues [Controller.Zoom].
func ZoomEvent(delta float64) Event { return Event{Kind: EventZoom, Delta: delta} }

// WheelEvent queues [Controller.Wheel].
func WheelEvent(deltaY float64, ctrl bool) Event {
	return Event{Kind: EventWheel, DeltaY: deltaY, Ctrl: ctrl}
}

// SetLayoutEvent queues [Controller.SetLayout].
func SetLayoutEvent(r layout.Result) Event { return Event{Kind: EventSetLayout, Layout: r} }

// LoadEvent queues [Controller.Load].
func LoadEvent(nodes []tree.Node, r layout.Result) Event {
	return Event{Kind: EventLoad, Nodes: nodes, Layout: r}
}

// Apply runs events in order. Each event is fully applied, focus first and
// center second, before the next one starts. The first failing event stops
// the batch; events before it stay applied.
func (c *Controller) Apply(events ...Event) error {
	for i, ev := range events {
		if err := c.apply(ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Kind, err)
		}
	}
	return nil
}

func (c *Controller) apply(ev Event) error {
	switch ev.Kind {
	case EventSelect:
		return c.Select(ev.NodeID)
	case EventZoom:
		c.Zoom(ev.Delta)
	case EventWheel:
		c.Wheel(ev.DeltaY, ev.Ctrl)
	case EventSetLayout:
		c.SetLayout(ev.Layout)
	case EventLoad:
		c.Load(ev.Nodes, ev.Layout)
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown camera event %q", ev.Kind)
	}
	return nil
}
