package internal

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

type Signal struct {
	*ReactiveNode

	rt *Runtime

	value        any
	pendingValue *any // nil if no pending value
}

func (r *Runtime) NewSignal(initial any) *Signal {
	s := &Signal{
		ReactiveNode: r.NewNode(),
		rt:           r,
		value:        initial,
	}

	s.fn = nil // signals don't recompute

	return s
}

// Read the current value, tracking the dependency if within a reactive context.
func (s *Signal) Read() any {
	s.rt.tracker.Track(s)

	return s.Value()
}

// Write pushes a new value into the graph.
// Every write is an event, even when the value did not change.
// It reports whether the signal had any dependents when the value was pushed.
func (s *Signal) Write(v any) bool {
	hadSubs := s.HasSubs()

	if s.pendingValue == nil {
		s.rt.nodeQueue.Enqueue(s)
	}
	s.pendingValue = &v

	s.rt.heap.InsertAll(s.Subs())
	s.rt.Schedule()

	return hadSubs
}

func (s *Signal) Value() any {
	if s.pendingValue != nil {
		return *s.pendingValue
	}

	return s.value
}

// Commit applies the pending value to the signal
func (s *Signal) Commit() {
	if s.pendingValue != nil {
		s.value = *s.pendingValue
		s.pendingValue = nil
	}
}

// IsEqual is the equality used across the graph.
// It compares structurally and looks into unexported fields.
func IsEqual(a, b any) bool {
	return cmp.Equal(a, b, cmp.Exporter(func(reflect.Type) bool { return true }))
}
