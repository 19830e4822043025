package sigtime

import (
	"time"

	"github.com/AnatoleLucet/sigtime/loop"
	"github.com/AnatoleLucet/sigtime/sig"
)

// Since is true for window after each event of source, false otherwise.
// Events closer than window apart keep it true until window after the last one.
func Since[T any](c *Clock, window time.Duration, source sig.Value[T]) *sig.Computed[bool] {
	live := sig.Count(source)
	delayed := sig.Count(Delay(c, window, source))

	return sig.Lift2(func(a, b int) bool {
		return !sig.Equal(a, b)
	}, live, delayed)
}

// Delay replays every event of s, d later.
// The delayed signal starts with the current value of s.
func Delay[T any](c *Clock, d time.Duration, s sig.Value[T]) *sig.Signal[T] {
	out := sig.NewSignal(s.Peek())
	pending := make(map[*loop.Timer]struct{})

	first := true
	sig.NewEffect(func() {
		v := s.Read()
		if first {
			first = false
			return
		}

		var t *loop.Timer
		t = c.loop.After(d, func() {
			delete(pending, t)
			out.Write(v)
		})
		pending[t] = struct{}{}
	})

	sig.OnCleanup(func() {
		for t := range pending {
			t.Cancel()
		}
		clear(pending)
	})

	return out
}

// Stamped is a value along with the time it was observed.
type Stamped[T any] struct {
	At    time.Time
	Value T
}

// Timestamp pairs every event of s with the time it happened.
func Timestamp[T any](c *Clock, s sig.Value[T]) *sig.Computed[Stamped[T]] {
	return sig.Lift(func(v T) Stamped[T] {
		return Stamped[T]{At: c.Now(), Value: v}
	}, s)
}
