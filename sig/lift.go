package sig

import "github.com/AnatoleLucet/sigtime/internal"

// unlike NewComputed, every recomputation is an event for the dependents
func newLifted[T any](compute func() T) *Computed[T] {
	return &Computed[T]{
		internal.GetRuntime().NewComputed(func() any {
			return compute()
		}, nil),
	}
}

// Lift applies fn to every event of a.
func Lift[A, R any](fn func(A) R, a Value[A]) *Computed[R] {
	return newLifted(func() R {
		return fn(a.Read())
	})
}

// Lift2 applies fn to the latest values of a and b whenever either of them has an event.
func Lift2[A, B, R any](fn func(A, B) R, a Value[A], b Value[B]) *Computed[R] {
	return newLifted(func() R {
		return fn(a.Read(), b.Read())
	})
}

// Foldp folds the events of source into a state, starting from initial.
// The value source holds at creation is not folded.
func Foldp[A, S any](step func(A, S) S, initial S, source Value[A]) *Computed[S] {
	state := initial
	started := false

	return newLifted(func() S {
		v := source.Read()
		if !started {
			started = true
			return state
		}

		state = step(v, state)
		return state
	})
}

// Count counts the events of source.
func Count[T any](source Value[T]) *Computed[int] {
	return Foldp(func(_ T, n int) int { return n + 1 }, 0, source)
}

// DropRepeats forwards the events of source whose value differs from the previous one.
func DropRepeats[T any](source Value[T]) *Computed[T] {
	return NewComputed(source.Read)
}
