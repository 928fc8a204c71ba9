package camera

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultTransitionDuration matches the ease-out used by the web viewer.
const DefaultTransitionDuration = time.Second

// Transition eases a rendered camera towards the controller's latest state.
//
// The controller itself only ever holds target states; a Transition is the
// renderer-side view of how far the picture has caught up. Retargeting in
// flight starts the new ease from the current interpolated values.
type Transition struct {
	duration time.Duration
	fn       ease.TweenFunc

	current State
	target  State

	x, y, scale *gween.Tween
	done        bool
}

// NewTransition starts at rest on from. A zero or negative duration makes
// every retarget snap, which is how reduced motion is honoured. A nil fn
// uses ease.OutCubic.
func NewTransition(from State, d time.Duration, fn ease.TweenFunc) *Transition {
	if fn == nil {
		fn = ease.OutCubic
	}
	return &Transition{
		duration: d,
		fn:       fn,
		current:  from,
		target:   from,
		done:     true,
	}
}

// Retarget moves the destination to to, superseding any target in flight.
// The focus switches immediately; offset and scale ease.
func (t *Transition) Retarget(to State) {
	if to == t.target {
		return
	}
	t.target = to
	t.current.FocusedID = to.FocusedID

	if t.duration <= 0 {
		t.current = to
		t.done = true
		return
	}

	d := float32(t.duration.Seconds())
	t.x = gween.New(float32(t.current.OffsetX), float32(to.OffsetX), d, t.fn)
	t.y = gween.New(float32(t.current.OffsetY), float32(to.OffsetY), d, t.fn)
	t.scale = gween.New(float32(t.current.Scale), float32(to.Scale), d, t.fn)
	t.done = false
}

// Update advances the ease by dt and returns the state to draw and whether
// the target has been reached.
func (t *Transition) Update(dt time.Duration) (State, bool) {
	if t.done {
		return t.current, true
	}

	step := float32(dt.Seconds())
	x, doneX := t.x.Update(step)
	y, doneY := t.y.Update(step)
	s, doneS := t.scale.Update(step)

	if doneX && doneY && doneS {
		// Land exactly on the target rather than its float32 image.
		t.current = t.target
		t.done = true
		return t.current, true
	}

	t.current.OffsetX = float64(x)
	t.current.OffsetY = float64(y)
	t.current.Scale = float64(s)
	return t.current, false
}

// Current returns the state last returned by Update.
func (t *Transition) Current() State { return t.current }

// Target returns the state being eased towards.
func (t *Transition) Target() State { return t.target }

// Done reports whether the current state equals the target.
func (t *Transition) Done() bool { return t.done }
