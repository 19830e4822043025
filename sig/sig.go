// Package sig is a push-based signal graph.
//
// Every goroutine gets its own graph runtime. Values written to a signal are
// propagated synchronously, in topological order, to every dependent before
// the write returns.
package sig

import "github.com/AnatoleLucet/sigtime/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Value is the read side shared by signals and computed values.
type Value[T any] interface {
	// Read the current value, tracking the dependency if within a reactive context.
	Read() T
	// Peek the current value without tracking it.
	Peek() T
}

type Signal[T any] struct {
	signal *internal.Signal
}

// NewSignal creates your tipical read/write signal.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		internal.GetRuntime().NewSignal(initial),
	}
}

// Constant creates a signal meant to never be written.
func Constant[T any](v T) *Signal[T] {
	return NewSignal(v)
}

// Read the current value of the signal, tracking the dependency if within a reactive context.
func (s *Signal[T]) Read() T {
	return as[T](s.signal.Read())
}

func (s *Signal[T]) Peek() T {
	return as[T](s.signal.Value())
}

// Write a new value to the signal, triggering updates to any dependents.
// Writing the same value twice is two events.
func (s *Signal[T]) Write(v T) {
	s.signal.Write(v)
}

// Push writes v and reports whether anything depended on the signal at that time.
func (s *Signal[T]) Push(v T) bool {
	return s.signal.Write(v)
}

// HasDependents reports whether any computation currently reads the signal.
func (s *Signal[T]) HasDependents() bool {
	return s.signal.HasSubs()
}

type Computed[T any] struct {
	computed *internal.Computed
}

// NewComputed creates a computed signal that derives its value from other signals (its a memo).
// Dependents are only notified when the derived value changes.
func NewComputed[T any](compute func() T) *Computed[T] {
	return &Computed[T]{
		internal.GetRuntime().NewComputed(func() any {
			return compute()
		}, internal.IsEqual),
	}
}

// Read the current value of the computed signal, tracking the dependency if within a reactive context.
func (c *Computed[T]) Read() T {
	return as[T](c.computed.Signal.Read())
}

func (c *Computed[T]) Peek() T {
	return as[T](c.computed.Signal.Value())
}

// HasDependents reports whether any computation currently reads the value.
func (c *Computed[T]) HasDependents() bool {
	return c.computed.HasSubs()
}

// Dispose stops the computation and detaches it from its dependencies.
func (c *Computed[T]) Dispose() {
	c.computed.Dispose()
}

// NewBatch batches multiple signal writes into a single update cycle,
// instead of triggering updates after each write.
func NewBatch(fn func()) {
	internal.GetRuntime().NewBatch(fn)
}

// NewEffect creates a reactive effect that runs the given function
// whenever its dependencies change.
func NewEffect(fn func()) {
	internal.GetRuntime().NewEffect(internal.EffectUser, fn)
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers a function to be called when the current owner is disposed.
func OnCleanup(fn func()) {
	internal.GetRuntime().OnCleanup(fn)
}

// OnSettled registers a function to be called once the next update cycle completes.
func OnSettled(fn func()) {
	internal.GetRuntime().OnSettled(fn)
}

// Equal is the equality used by the graph to compare arbitrary values.
func Equal(a, b any) bool {
	return internal.IsEqual(a, b)
}

type Owner struct {
	owner *internal.Owner
}

// NewOwner creates a new reactive owner.
// An owner manages the lifecycle of reactive nodes created within its context.
func NewOwner() *Owner {
	return &Owner{
		internal.GetRuntime().NewOwner(),
	}
}

// Run a function within the context of this owner.
// Each reactive node created within the function will be a child of this owner,
// and will be disposed when owner.Dispose() is called on this owner.
func (o *Owner) Run(fn func() error) error {
	var err error
	o.owner.Run(func() { err = fn() })
	return err
}

// Dispose this owner and all its children.
func (o *Owner) Dispose() { o.owner.Dispose() }

// Add a cleanup function to be called ONCE when the owner is disposed.
func (o *Owner) OnCleanup(fn func()) { o.owner.OnCleanup(fn) }

// Add a function to be called when the owner is disposed (each time Dispose is called).
func (o *Owner) OnDispose(fn func()) { o.owner.OnDispose(fn) }

// Add a function to be called when a panic occurs within this owner.
// If no error listener is registered, the panic will propagate as usual.
func (o *Owner) OnError(fn func(any)) { o.owner.OnError(fn) }
