// Package cutscene plays short timed state sequences, such as the intro
// shown before the tree viewer appears.
//
// A [Sequence] is an ordered list of [Step] values. Each step names a state
// and the delay after the previous step before that state is entered. A
// sequence runs on one timer at a time and stops on context cancellation,
// so stopping a running cutscene is a single call:
//
//	p := cutscene.Intro().Start(ctx, func(state string) { frames <- state })
//	defer p.Stop()
//
// Whether a cutscene already played is tracked by a [Registry] owned by the
// host, never by package-level state.
package cutscene

import (
	"context"
	"sync"
	"time"
)

// Step is one state of a sequence, entered Delay after the previous step.
type Step struct {
	State string
	Delay time.Duration
}

// Sequence is an ordered list of steps.
type Sequence struct {
	steps []Step
}

// NewSequence creates a sequence from steps. Negative delays count as zero.
func NewSequence(steps ...Step) Sequence {
	s := make([]Step, len(steps))
	for i, st := range steps {
		st.Delay = max(st.Delay, 0)
		s[i] = st
	}
	return Sequence{steps: s}
}

// FromOffsets builds a sequence from steps whose Delay is an offset from
// the start of the sequence rather than from the previous step.
// Offsets must be non-decreasing; an earlier offset fires with no delay.
func FromOffsets(steps ...Step) Sequence {
	rel := make([]Step, len(steps))
	var prev time.Duration
	for i, st := range steps {
		rel[i] = Step{State: st.State, Delay: max(st.Delay-prev, 0)}
		prev = max(prev, st.Delay)
	}
	return NewSequence(rel...)
}

// Steps returns a copy of the steps.
func (s Sequence) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Len returns the number of steps.
func (s Sequence) Len() int { return len(s.steps) }

// Duration is the time from start until the final state is entered.
func (s Sequence) Duration() time.Duration {
	var d time.Duration
	for _, st := range s.steps {
		d += st.Delay
	}
	return d
}

// Final returns the last state, or "" for an empty sequence.
func (s Sequence) Final() string {
	if len(s.steps) == 0 {
		return ""
	}
	return s.steps[len(s.steps)-1].State
}

// Run enters each state in order, calling emit from the calling goroutine.
// It returns ctx.Err() if cancelled before the final state, nil otherwise.
func (s Sequence) Run(ctx context.Context, emit func(state string)) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for _, st := range s.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if st.Delay > 0 {
			if timer == nil {
				timer = time.NewTimer(st.Delay)
			} else {
				timer.Reset(st.Delay)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
		emit(st.State)
	}
	return nil
}

// Start runs the sequence in its own goroutine.
func (s Sequence) Start(ctx context.Context, emit func(state string)) *Player {
	ctx, cancel := context.WithCancel(ctx)
	p := &Player{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		err := s.Run(ctx, emit)
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
	}()
	return p
}

// Player is a sequence running in the background.
type Player struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Stop cancels the sequence and waits for its goroutine to exit.
// No state is emitted after Stop returns.
func (p *Player) Stop() {
	p.cancel()
	<-p.done
}

// Done is closed when the sequence finishes or is stopped.
func (p *Player) Done() <-chan struct{} { return p.done }

// Wait blocks until the sequence ends and returns its error, which is
// non-nil only when it was cancelled early.
func (p *Player) Wait() error {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
