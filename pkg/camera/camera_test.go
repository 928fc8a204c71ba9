package camera

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/tree"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

var sample = []tree.Node{
	{ID: "a", Label: "A"},
	{ID: "b", Parent: "a", Label: "B"},
	{ID: "c", Parent: "a", Label: "C", FullTitle: "Course C", Description: "third", Status: tree.StatusCompleted},
}

func newSample(opts ...Option) *Controller {
	return New(sample, layout.Compute(sample, 800, 320), opts...)
}

// checkCentered asserts the recentering law for the focused node.
func checkCentered(t *testing.T, c *Controller) {
	t.Helper()
	s := c.State()
	p, ok := c.Layout().Position(s.FocusedID)
	if !ok {
		t.Fatalf("focus %q has no position", s.FocusedID)
	}
	r := c.Layout()
	if got := p.X*s.Scale + s.OffsetX; !approx(got, r.Width/2) {
		t.Errorf("x*scale+offsetX = %v, want %v", got, r.Width/2)
	}
	if got := p.Y*s.Scale + s.OffsetY; !approx(got, r.Height/2) {
		t.Errorf("y*scale+offsetY = %v, want %v", got, r.Height/2)
	}
}

func TestNew(t *testing.T) {
	c := newSample()
	s := c.State()
	if s.FocusedID != "a" {
		t.Errorf("FocusedID = %q, want a", s.FocusedID)
	}
	if s.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", s.Scale, DefaultScale)
	}
	checkCentered(t, c)

	// a sits at (40, 160) in an 800x320 viewport.
	if !approx(s.OffsetX, 360) || !approx(s.OffsetY, 0) {
		t.Errorf("offset = (%v, %v), want (360, 0)", s.OffsetX, s.OffsetY)
	}
}

func TestNewFocusWithoutExplicitRoot(t *testing.T) {
	nodes := []tree.Node{{ID: "x", Parent: "gone"}, {ID: "y", Parent: "x"}}
	c := New(nodes, layout.Compute(nodes, 800, 320))
	if got := c.State().FocusedID; got != "x" {
		t.Errorf("FocusedID = %q, want first node x", got)
	}
	checkCentered(t, c)
}

func TestEmptyNodeSet(t *testing.T) {
	c := New(nil, layout.Compute(nil, 800, 320))
	if s := c.State(); s != (State{Scale: DefaultScale}) {
		t.Errorf("State() = %+v, want zero offset at default scale", s)
	}

	c.Zoom(0.5)
	if s := c.State(); s.Scale != 1.5 || s.OffsetX != 0 || s.OffsetY != 0 {
		t.Errorf("after zoom State() = %+v, want scale 1.5 and untouched offset", s)
	}
	if err := c.Select("anything"); err == nil {
		t.Error("Select on empty set should fail")
	}
	if _, ok := c.Focused(); ok {
		t.Error("Focused() should report false")
	}
}

func TestSelect(t *testing.T) {
	var got []tree.Node
	c := newSample(WithOnSelect(func(n tree.Node) { got = append(got, n) }))

	if err := c.Select("c"); err != nil {
		t.Fatalf("Select(c): %v", err)
	}
	checkCentered(t, c)
	first := c.State()

	if err := c.Select("c"); err != nil {
		t.Fatalf("second Select(c): %v", err)
	}
	if second := c.State(); second != first {
		t.Errorf("re-select changed state: %+v -> %+v", first, second)
	}

	if len(got) != 2 {
		t.Fatalf("callback fired %d times, want 2", len(got))
	}
	for i, n := range got {
		if n != sample[2] {
			t.Errorf("callback %d got %+v, want %+v", i, n, sample[2])
		}
	}
}

func TestSelectUnknown(t *testing.T) {
	fired := false
	c := newSample(WithOnSelect(func(tree.Node) { fired = true }))
	before := c.State()

	err := c.Select("zzz")
	if !errors.Is(err, tree.ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
	if !apperrors.Is(err, apperrors.ErrCodeNodeNotFound) {
		t.Errorf("code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeNodeNotFound)
	}
	if c.State() != before {
		t.Error("failed select changed state")
	}
	if fired {
		t.Error("callback fired for unknown node")
	}
}

func TestZoom(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   float64
	}{
		{"In", []float64{0.25}, 1.25},
		{"Out", []float64{-0.25}, 0.75},
		{"BelowMin", []float64{-10}, DefaultMinScale},
		{"AboveMax", []float64{10}, DefaultMaxScale},
		{"BackFromMin", []float64{-10, 0.25}, 0.75},
		{"NaNIgnored", []float64{math.NaN()}, 1},
		{"InfIgnored", []float64{math.Inf(-1)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newSample()
			_ = c.Select("b")
			for _, d := range tt.deltas {
				c.Zoom(d)
			}
			s := c.State()
			if s.Scale != tt.want {
				t.Errorf("Scale = %v, want %v", s.Scale, tt.want)
			}
			if s.FocusedID != "b" {
				t.Errorf("zoom changed focus to %q", s.FocusedID)
			}
			checkCentered(t, c)
		})
	}
}

func TestZoomNeverLeavesBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	c := newSample(WithScaleBounds(0.25, 4))

	for i := range 1000 {
		c.Zoom(rng.NormFloat64() * 2)
		if s := c.State().Scale; s < 0.25 || s > 4 {
			t.Fatalf("step %d: scale %v outside [0.25, 4]", i, s)
		}
	}
}

func TestWheel(t *testing.T) {
	c := newSample()

	if !c.Wheel(100, false) {
		t.Error("Wheel without ctrl should be handled")
	}
	if s := c.State().Scale; !approx(s, 0.9) {
		t.Errorf("Scale = %v, want 0.9", s)
	}

	before := c.State()
	if c.Wheel(-500, true) {
		t.Error("ctrl-wheel should not be handled")
	}
	if c.State() != before {
		t.Error("ctrl-wheel changed state")
	}

	c.Wheel(-5000, false)
	if s := c.State().Scale; s != DefaultMaxScale {
		t.Errorf("Scale = %v, want %v", s, DefaultMaxScale)
	}
}

func TestSetLayoutRecenters(t *testing.T) {
	c := newSample()
	_ = c.Select("c")

	c.SetLayout(layout.Compute(sample, 1200, 600))
	if s := c.State(); s.FocusedID != "c" {
		t.Errorf("FocusedID = %q, want c", s.FocusedID)
	}
	checkCentered(t, c)
}

func TestLoad(t *testing.T) {
	t.Run("SameTree", func(t *testing.T) {
		c := newSample()
		_ = c.Select("c")
		c.Zoom(0.5)

		edited := []tree.Node{sample[0], sample[1], sample[2]}
		edited[2].Description = "rewritten"
		if c.Load(edited, layout.Compute(edited, 800, 320)) {
			t.Error("Load reported a reset for the same tree")
		}
		s := c.State()
		if s.FocusedID != "c" || s.Scale != 1.5 {
			t.Errorf("State() = %+v, want focus c at 1.5", s)
		}
		if n, _ := c.Node("c"); n.Description != "rewritten" {
			t.Errorf("Node(c).Description = %q", n.Description)
		}
		checkCentered(t, c)
	})

	t.Run("DifferentTree", func(t *testing.T) {
		c := newSample()
		_ = c.Select("c")
		c.Zoom(0.5)

		other := []tree.Node{{ID: "p"}, {ID: "q", Parent: "p"}}
		if !c.Load(other, layout.Compute(other, 800, 320)) {
			t.Error("Load did not report a reset")
		}
		s := c.State()
		if s.FocusedID != "p" || s.Scale != DefaultScale {
			t.Errorf("State() = %+v, want focus p at default scale", s)
		}
		checkCentered(t, c)
	})
}

func TestRestore(t *testing.T) {
	c := newSample()
	_ = c.Select("b")
	c.Zoom(0.75)
	snap := c.State()

	fresh := newSample()
	fresh.Restore(snap)
	if fresh.State() != snap {
		t.Errorf("Restore() = %+v, want %+v", fresh.State(), snap)
	}

	fresh.Restore(State{Scale: 99, FocusedID: "c"})
	if s := fresh.State(); s.Scale != DefaultMaxScale {
		t.Errorf("Scale = %v, want clamped %v", s.Scale, DefaultMaxScale)
	}
	checkCentered(t, fresh)

	fresh.Restore(State{OffsetX: 12, OffsetY: 34, FocusedID: "removed"})
	if s := fresh.State(); s.OffsetX != 12 || s.OffsetY != 34 || s.Scale != DefaultScale {
		t.Errorf("State() = %+v, want kept offset at default scale", s)
	}
}

func TestOptions(t *testing.T) {
	c := newSample(WithScaleBounds(2, 3))
	if s := c.State().Scale; s != 2 {
		t.Errorf("default scale = %v, want clamped to 2", s)
	}

	c = newSample(WithScaleBounds(-1, 3), WithDefaultScale(1.5))
	if cfg := c.Config(); cfg.MinScale != DefaultMinScale || cfg.DefaultScale != 1.5 {
		t.Errorf("Config() = %+v", cfg)
	}

	c = newSample(WithConfig(Config{MinScale: 1, MaxScale: 0.5, DefaultScale: 1, WheelDivisor: 1}))
	if c.Config() != DefaultConfig() {
		t.Errorf("invalid config was applied: %+v", c.Config())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"Default", DefaultConfig(), false},
		{"ZeroMin", Config{MinScale: 0, MaxScale: 1, DefaultScale: 1, WheelDivisor: 1}, true},
		{"Inverted", Config{MinScale: 2, MaxScale: 1, DefaultScale: 1, WheelDivisor: 1}, true},
		{"DefaultOutside", Config{MinScale: 1, MaxScale: 2, DefaultScale: 3, WheelDivisor: 1}, true},
		{"ZeroDivisor", Config{MinScale: 1, MaxScale: 2, DefaultScale: 1, WheelDivisor: 0}, true},
		{"NaNMin", Config{MinScale: math.NaN(), MaxScale: 2, DefaultScale: 1, WheelDivisor: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

type recordingHooks struct {
	focus  [][2]string
	zooms  []bool
	resets []string
}

func (h *recordingHooks) OnFocus(from, to string)       { h.focus = append(h.focus, [2]string{from, to}) }
func (h *recordingHooks) OnZoom(_ float64, clamped bool) { h.zooms = append(h.zooms, clamped) }
func (h *recordingHooks) OnReset(focus string)           { h.resets = append(h.resets, focus) }

func TestHooks(t *testing.T) {
	h := &recordingHooks{}
	c := newSample(WithHooks(h))

	_ = c.Select("b")
	_ = c.Select("b")
	c.Zoom(0.1)
	c.Zoom(-5)
	other := []tree.Node{{ID: "z"}}
	c.Load(other, layout.Compute(other, 10, 10))

	wantFocus := [][2]string{{"", "a"}, {"a", "b"}}
	if len(h.focus) != len(wantFocus) || h.focus[0] != wantFocus[0] || h.focus[1] != wantFocus[1] {
		t.Errorf("focus events = %v, want %v", h.focus, wantFocus)
	}
	if len(h.zooms) != 2 || h.zooms[0] || !h.zooms[1] {
		t.Errorf("zoom clamped flags = %v, want [false true]", h.zooms)
	}
	if len(h.resets) != 1 || h.resets[0] != "z" {
		t.Errorf("resets = %v, want [z]", h.resets)
	}
}

func TestStateProject(t *testing.T) {
	s := State{OffsetX: 10, OffsetY: -5, Scale: 2}
	x, y := s.Project(3, 4)
	if x != 16 || y != 3 {
		t.Errorf("Project(3, 4) = (%v, %v), want (16, 3)", x, y)
	}
}

func TestExportParse(t *testing.T) {
	s := State{OffsetX: 1, OffsetY: 2, Scale: 1.5, FocusedID: "a"}
	if got := Parse(s.Export()); got != s {
		t.Errorf("Parse(Export()) = %+v, want %+v", got, s)
	}
	if got := Parse(nil); got != (State{}) {
		t.Errorf("Parse(nil) = %+v, want zero", got)
	}
}
