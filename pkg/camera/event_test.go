package camera

import (
	"errors"
	"testing"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/tree"
)

func TestApplyMatchesDirectCalls(t *testing.T) {
	direct := newSample()
	_ = direct.Select("c")
	direct.Zoom(-0.3)
	direct.Wheel(200, false)
	direct.Wheel(200, true)
	direct.SetLayout(layout.Compute(sample, 640, 480))

	batched := newSample()
	err := batched.Apply(
		SelectEvent("c"),
		ZoomEvent(-0.3),
		WheelEvent(200, false),
		WheelEvent(200, true),
		SetLayoutEvent(layout.Compute(sample, 640, 480)),
	)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if batched.State() != direct.State() {
		t.Errorf("Apply state = %+v, want %+v", batched.State(), direct.State())
	}
	checkCentered(t, batched)
}

func TestApplySelectThenZoomOrder(t *testing.T) {
	c := newSample()
	if err := c.Apply(SelectEvent("b"), ZoomEvent(1)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	s := c.State()
	if s.FocusedID != "b" || s.Scale != 2 {
		t.Errorf("State() = %+v, want focus b at 2", s)
	}
	checkCentered(t, c)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	c := newSample()
	err := c.Apply(ZoomEvent(0.5), SelectEvent("nope"), ZoomEvent(0.5))
	if !errors.Is(err, tree.ErrUnknownNode) {
		t.Fatalf("err = %v, want ErrUnknownNode", err)
	}
	if s := c.State().Scale; s != 1.5 {
		t.Errorf("Scale = %v, want 1.5 (first event only)", s)
	}
}

func TestApplyLoad(t *testing.T) {
	c := newSample()
	other := []tree.Node{{ID: "x"}, {ID: "y", Parent: "x"}}
	if err := c.Apply(ZoomEvent(1), LoadEvent(other, layout.Compute(other, 800, 320))); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s := c.State(); s.FocusedID != "x" || s.Scale != DefaultScale {
		t.Errorf("State() = %+v, want reset to x", s)
	}
}

func TestApplyUnknownKind(t *testing.T) {
	c := newSample()
	err := c.Apply(Event{Kind: "teleport"})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want %v", err, apperrors.ErrCodeInvalidInput)
	}
}
