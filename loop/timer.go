package loop

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a pending one-shot callback armed with Loop.After.
type Timer struct {
	loop  *Loop
	timer clockwork.Timer
	fn    func()

	// set once the callback ran or the timer was cancelled
	done bool
}

// After arms fn to run on the loop once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) *Timer {
	t := &Timer{loop: l, fn: fn}

	l.mu.Lock()
	t.timer = l.clock.AfterFunc(d, func() { l.enqueue(t.fire) })
	l.pending[t] = struct{}{}
	l.mu.Unlock()

	l.metrics.timersArmed.Inc()
	l.metrics.timersPending.Inc()
	l.log.Debug().Dur("delay", d).Msg("timer armed")

	return t
}

// Cancel stops the timer. It reports whether the callback was still pending;
// cancelling a timer that already ran or was cancelled does nothing.
// A callback already fired but still queued on the loop is dropped.
func (t *Timer) Cancel() bool {
	if t == nil {
		return false
	}

	l := t.loop

	l.mu.Lock()
	if t.done {
		l.mu.Unlock()
		return false
	}
	t.done = true
	delete(l.pending, t)
	l.mu.Unlock()

	t.timer.Stop()

	l.metrics.timersCancelled.Inc()
	l.metrics.timersPending.Dec()
	l.log.Debug().Msg("timer cancelled")

	return true
}

// Active reports whether the callback is still to run.
func (t *Timer) Active() bool {
	if t == nil {
		return false
	}

	t.loop.mu.Lock()
	defer t.loop.mu.Unlock()

	return !t.done
}

func (t *Timer) fire() {
	l := t.loop

	l.mu.Lock()
	if t.done {
		l.mu.Unlock()

		l.metrics.timersDropped.Inc()
		l.log.Debug().Msg("dropped callback of cancelled timer")
		return
	}
	t.done = true
	delete(l.pending, t)
	l.mu.Unlock()

	l.metrics.timersFired.Inc()
	l.metrics.timersPending.Dec()

	t.fn()
}
