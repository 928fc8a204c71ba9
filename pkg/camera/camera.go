package camera

import (
	"math"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/observability"
	"github.com/matzehuels/degreetree/pkg/tree"
)

const (
	DefaultMinScale     = 0.5
	DefaultMaxScale     = 2.5
	DefaultScale        = 1.0
	DefaultWheelDivisor = 1000.0
)

// State is the camera transform applied to the layout.
type State struct {
	OffsetX, OffsetY float64
	Scale            float64
	FocusedID        string
}

// Project maps a layout coordinate to viewport coordinates.
func (s State) Project(x, y float64) (float64, float64) {
	return x*s.Scale + s.OffsetX, y*s.Scale + s.OffsetY
}

// Config holds the zoom bounds and input scaling.
type Config struct {
	MinScale     float64
	MaxScale     float64
	DefaultScale float64
	WheelDivisor float64 // Wheel deltaY units per unit of scale
}

// DefaultConfig returns the standard zoom configuration.
func DefaultConfig() Config {
	return Config{
		MinScale:     DefaultMinScale,
		MaxScale:     DefaultMaxScale,
		DefaultScale: DefaultScale,
		WheelDivisor: DefaultWheelDivisor,
	}
}

// Validate checks that the bounds are positive and ordered and that the
// default scale lies within them.
func (c Config) Validate() error {
	switch {
	case !(c.MinScale > 0):
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "min scale must be positive, got %v", c.MinScale)
	case !(c.MaxScale >= c.MinScale):
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "max scale %v below min scale %v", c.MaxScale, c.MinScale)
	case c.DefaultScale < c.MinScale || c.DefaultScale > c.MaxScale:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "default scale %v outside [%v, %v]", c.DefaultScale, c.MinScale, c.MaxScale)
	case !(c.WheelDivisor > 0):
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "wheel divisor must be positive, got %v", c.WheelDivisor)
	}
	return nil
}

func (c Config) clamp(s float64) float64 {
	return min(max(s, c.MinScale), c.MaxScale)
}

// Option configures a [Controller].
type Option func(*Controller)

// WithConfig replaces the whole zoom configuration.
// An invalid configuration is ignored in favour of the defaults.
func WithConfig(cfg Config) Option {
	return func(c *Controller) {
		if cfg.Validate() == nil {
			c.cfg = cfg
		}
	}
}

// WithScaleBounds sets the zoom range. Bounds that are not positive and
// ordered are ignored.
func WithScaleBounds(minScale, maxScale float64) Option {
	return func(c *Controller) {
		if minScale > 0 && maxScale >= minScale {
			c.cfg.MinScale, c.cfg.MaxScale = minScale, maxScale
		}
	}
}

// WithDefaultScale sets the scale used on creation and after a reset.
// It is clamped to the zoom range.
func WithDefaultScale(s float64) Option {
	return func(c *Controller) {
		if s > 0 {
			c.cfg.DefaultScale = s
		}
	}
}

// WithOnSelect registers the selection callback. It receives the full node
// record on every successful [Controller.Select].
func WithOnSelect(fn func(tree.Node)) Option {
	return func(c *Controller) { c.onSelect = fn }
}

// WithHooks overrides the globally registered camera hooks.
func WithHooks(h observability.CameraHooks) Option {
	return func(c *Controller) {
		if h != nil {
			c.hooks = h
		}
	}
}

// Controller maintains the camera for one node set and layout.
type Controller struct {
	cfg      Config
	onSelect func(tree.Node)
	hooks    observability.CameraHooks

	nodes       []tree.Node
	byID        map[string]int // first occurrence wins
	fingerprint uint64
	result      layout.Result

	state State
}

// New creates a controller focused on the default node at the default
// scale, already centered.
func New(nodes []tree.Node, result layout.Result, opts ...Option) *Controller {
	c := &Controller{
		cfg:   DefaultConfig(),
		hooks: observability.Camera(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cfg.DefaultScale = c.cfg.clamp(c.cfg.DefaultScale)

	c.adopt(nodes)
	c.result = result
	c.state = State{Scale: c.cfg.DefaultScale, FocusedID: tree.DefaultFocus(nodes)}
	if c.state.FocusedID != "" {
		c.hooks.OnFocus("", c.state.FocusedID)
	}
	c.recenter()
	return c
}

func (c *Controller) adopt(nodes []tree.Node) {
	c.nodes = nodes
	c.byID = make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := c.byID[n.ID]; !dup {
			c.byID[n.ID] = i
		}
	}
	c.fingerprint = tree.Fingerprint(nodes)
}

// recenter places the focused node at the viewport center. It is skipped
// when the focus has no position.
func (c *Controller) recenter() {
	p, ok := c.result.Positions[c.state.FocusedID]
	if !ok {
		return
	}
	c.state.OffsetX = c.result.Width/2 - p.X*c.state.Scale
	c.state.OffsetY = c.result.Height/2 - p.Y*c.state.Scale
}

// State returns a copy of the current camera state.
func (c *Controller) State() State { return c.state }

// Config returns the zoom configuration in effect.
func (c *Controller) Config() Config { return c.cfg }

// Focused returns the focused node. It reports false when the focus matches
// no node.
func (c *Controller) Focused() (tree.Node, bool) { return c.Node(c.state.FocusedID) }

// Node returns the record for id in the current node set.
func (c *Controller) Node(id string) (tree.Node, bool) {
	i, ok := c.byID[id]
	if !ok {
		return tree.Node{}, false
	}
	return c.nodes[i], true
}

// Nodes returns the current node set. The slice must not be modified.
func (c *Controller) Nodes() []tree.Node { return c.nodes }

// Layout returns the current layout.
func (c *Controller) Layout() layout.Result { return c.result }

// Select focuses id, recenters and fires the selection callback.
// Selecting the focused node again leaves the state unchanged but still
// fires the callback. An unknown id returns [tree.ErrUnknownNode] and
// changes nothing.
func (c *Controller) Select(id string) error {
	n, ok := c.Node(id)
	if !ok {
		return apperrors.Wrap(apperrors.ErrCodeNodeNotFound, tree.ErrUnknownNode, "select %q", id)
	}
	if prev := c.state.FocusedID; prev != id {
		c.state.FocusedID = id
		c.hooks.OnFocus(prev, id)
	}
	c.recenter()
	if c.onSelect != nil {
		c.onSelect(n)
	}
	return nil
}

// Zoom adds delta to the scale, clamped to the configured bounds, and
// recenters on the unchanged focus. Non-finite deltas are ignored.
func (c *Controller) Zoom(delta float64) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	want := c.state.Scale + delta
	c.state.Scale = c.cfg.clamp(want)
	c.hooks.OnZoom(c.state.Scale, c.state.Scale != want)
	c.recenter()
}

// Wheel applies a wheel gesture. It reports false, and does nothing, while
// ctrl is held so the host can keep its own zoom gesture.
func (c *Controller) Wheel(deltaY float64, ctrl bool) bool {
	if ctrl {
		return false
	}
	c.Zoom(-deltaY / c.cfg.WheelDivisor)
	return true
}

// SetLayout adopts a layout computed for the same node set, for example
// after a viewport resize, and recenters.
func (c *Controller) SetLayout(result layout.Result) {
	c.result = result
	c.recenter()
}

// Load adopts a new node set and its layout. When the set's identity
// changed, focus and scale reset to their defaults first.
// It reports whether a reset happened.
func (c *Controller) Load(nodes []tree.Node, result layout.Result) bool {
	reset := tree.Fingerprint(nodes) != c.fingerprint
	c.adopt(nodes)
	c.result = result
	if reset {
		c.state.FocusedID = tree.DefaultFocus(nodes)
		c.state.Scale = c.cfg.DefaultScale
		c.hooks.OnReset(c.state.FocusedID)
	}
	c.recenter()
	return reset
}

// Restore installs a snapshot taken with [Controller.State]. The scale is
// clamped; the offset is recomputed when the focus has a position and
// kept from the snapshot otherwise.
func (c *Controller) Restore(s State) {
	if !(s.Scale > 0) || math.IsInf(s.Scale, 0) {
		s.Scale = c.cfg.DefaultScale
	}
	s.Scale = c.cfg.clamp(s.Scale)
	c.state = s
	c.recenter()
}
