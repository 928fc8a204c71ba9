package cutscene

import (
	"context"
	"sync"
)

// Registry records which cutscenes already played. The zero value is not
// usable; create one with [NewRegistry].
type Registry struct {
	mu     sync.Mutex
	played map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{played: make(map[string]bool)}
}

// MarkPlayed records name as played and reports whether this call was the
// first to do so.
func (r *Registry) MarkPlayed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.played[name] {
		return false
	}
	r.played[name] = true
	return true
}

// Played reports whether name has been marked.
func (r *Registry) Played(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.played[name]
}

// Reset forgets every marker.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.played)
}

// PlayOnce plays seq unless it already played in r or skip is set, in
// which case only the final state is emitted. The sequence is marked played
// when its final state is reached. It blocks like [Sequence.Run].
func PlayOnce(ctx context.Context, r *Registry, name string, seq Sequence, skip bool, emit func(state string)) error {
	if skip || r.Played(name) {
		if final := seq.Final(); final != "" {
			emit(final)
		}
		return nil
	}
	if err := seq.Run(ctx, emit); err != nil {
		return err
	}
	r.MarkPlayed(name)
	return nil
}
