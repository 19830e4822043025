// Package loop is the single-threaded event loop timers are delivered on.
//
// Timer callbacks fire on clock goroutines but only ever run on the goroutine
// calling Run (or Step), one at a time, so the graph they write to is never
// touched concurrently.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/AnatoleLucet/sigtime/internal"
)

var (
	// ErrClosed is returned once the loop has been closed.
	ErrClosed = errors.New("loop: closed")

	// ErrTaskPanic wraps the value of a task that panicked.
	ErrTaskPanic = errors.New("loop: task panicked")
)

type Loop struct {
	clock   clockwork.Clock
	rt      *internal.Runtime
	log     zerolog.Logger
	metrics *metrics

	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once

	// guards pending and the done flag of every timer,
	// Close and Pending may be called from outside the loop
	mu      sync.Mutex
	pending map[*Timer]struct{}
}

// New creates a loop bound to the graph runtime of the calling goroutine.
func New(opts ...Option) *Loop {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Loop{
		clock:   o.clock,
		rt:      internal.GetRuntime(),
		log:     o.logger.With().Str("component", "loop").Logger(),
		metrics: newMetrics(o.registerer),

		tasks: make(chan func(), o.queueSize),
		done:  make(chan struct{}),

		pending: make(map[*Timer]struct{}),
	}
}

// Now reads the loop's clock.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Clock returns the clock timers are armed on.
func (l *Loop) Clock() clockwork.Clock {
	return l.clock
}

// Logger returns the loop's logger, for components scheduling on the loop.
func (l *Loop) Logger() zerolog.Logger {
	return l.log
}

// Post queues fn to run on the loop. It is safe to call from any goroutine,
// but blocks while the queue is full.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Run executes queued tasks until ctx is done or the loop is closed.
// Only one goroutine may run the loop at a time.
func (l *Loop) Run(ctx context.Context) error {
	defer internal.Bind(l.rt)()

	l.log.Debug().Msg("loop started")
	defer l.log.Debug().Msg("loop stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrClosed
		case task := <-l.tasks:
			if err := l.exec(task); err != nil {
				return err
			}
		}
	}
}

// Step waits for a single task and executes it.
func (l *Loop) Step(ctx context.Context) error {
	defer internal.Bind(l.rt)()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	case task := <-l.tasks:
		return l.exec(task)
	}
}

// Pending returns the number of armed timers whose callback has not run.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.pending)
}

// Close cancels every pending timer and stops the loop.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		n := len(l.pending)
		for t := range l.pending {
			t.done = true
			t.timer.Stop()
		}
		clear(l.pending)
		l.mu.Unlock()

		l.metrics.timersCancelled.Add(float64(n))
		l.metrics.timersPending.Sub(float64(n))

		close(l.done)
		l.log.Debug().Int("cancelled", n).Msg("loop closed")
	})
}

func (l *Loop) exec(task func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Interface("panic", r).Msg("loop task panicked")
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()

	l.metrics.tasks.Inc()
	task()

	return nil
}

// enqueue is called from clock goroutines.
func (l *Loop) enqueue(task func()) {
	select {
	case l.tasks <- task:
	case <-l.done:
	}
}
