package loop

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AnatoleLucet/sigtime/sig"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func step(t *testing.T, l *Loop) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, l.Step(ctx))
}

func assertIdle(t *testing.T, l *Loop) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, l.Step(ctx), context.DeadlineExceeded)
}

func TestLoop(t *testing.T) {
	t.Run("runs callbacks in firing order", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		l := New(WithClock(clock))
		defer l.Close()

		log := []string{}
		l.After(10*time.Millisecond, func() { log = append(log, "a") })
		l.After(20*time.Millisecond, func() { log = append(log, "b") })
		assert.Equal(t, 2, l.Pending())

		clock.Advance(10 * time.Millisecond)
		step(t, l)
		assert.Equal(t, 1, l.Pending())

		clock.Advance(10 * time.Millisecond)
		step(t, l)

		assert.Equal(t, []string{"a", "b"}, log)
		assert.Equal(t, 0, l.Pending())
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		l := New(WithClock(clock))
		defer l.Close()

		ran := false
		timer := l.After(10*time.Millisecond, func() { ran = true })
		assert.True(t, timer.Active())

		assert.True(t, timer.Cancel())
		assert.False(t, timer.Cancel())
		assert.False(t, timer.Active())
		assert.Equal(t, 0, l.Pending())

		clock.Advance(time.Second)
		assertIdle(t, l)
		assert.False(t, ran)

		var none *Timer
		assert.False(t, none.Cancel())
	})

	t.Run("cancel after run does nothing", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		l := New(WithClock(clock))
		defer l.Close()

		runs := 0
		timer := l.After(10*time.Millisecond, func() { runs++ })

		clock.Advance(10 * time.Millisecond)
		step(t, l)

		assert.False(t, timer.Cancel())
		assert.Equal(t, 1, runs)
	})

	t.Run("drops a fired callback cancelled before it ran", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		l := New(WithClock(clock))
		defer l.Close()

		ran := false
		timer := l.After(10*time.Millisecond, func() { ran = true })

		clock.Advance(10 * time.Millisecond)
		assert.True(t, timer.Cancel())

		step(t, l)

		assert.False(t, ran)
		assert.Equal(t, 1.0, testutil.ToFloat64(l.metrics.timersDropped))
		assert.Equal(t, 0.0, testutil.ToFloat64(l.metrics.timersPending))
	})

	t.Run("run stops with the context", func(t *testing.T) {
		l := New(WithClock(clockwork.NewFakeClock()))
		defer l.Close()

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, l.Post(cancel))

		assert.ErrorIs(t, l.Run(ctx), context.Canceled)
	})

	t.Run("run reports panicking tasks", func(t *testing.T) {
		l := New(WithClock(clockwork.NewFakeClock()))
		defer l.Close()

		require.NoError(t, l.Post(func() { panic("boom") }))

		err := l.Run(context.Background())
		assert.ErrorIs(t, err, ErrTaskPanic)
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("close cancels pending timers", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		l := New(WithClock(clock))

		l.After(10*time.Millisecond, func() {})
		timer := l.After(20*time.Millisecond, func() {})

		l.Close()
		l.Close()

		assert.Equal(t, 0, l.Pending())
		assert.False(t, timer.Cancel())
		assert.ErrorIs(t, l.Post(func() {}), ErrClosed)
		assert.ErrorIs(t, l.Run(context.Background()), ErrClosed)

		clock.Advance(time.Second)
	})

	t.Run("real clock", func(t *testing.T) {
		l := New()
		defer l.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		start := l.Now()
		var fired time.Time
		l.After(5*time.Millisecond, func() {
			fired = l.Now()
			cancel()
		})

		assert.ErrorIs(t, l.Run(ctx), context.Canceled)
		assert.GreaterOrEqual(t, fired.Sub(start), 5*time.Millisecond)
	})

	t.Run("callbacks see the graph of the creating goroutine", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		l := New(WithClock(clock))
		defer l.Close()

		count := sig.NewSignal(0)
		seen := []int{}

		l.After(10*time.Millisecond, func() {
			sig.NewEffect(func() {
				seen = append(seen, count.Read())
			})
			count.Write(1)
		})
		clock.Advance(10 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		errc := make(chan error, 1)
		go func() { errc <- l.Step(ctx) }()
		require.NoError(t, <-errc)

		assert.Equal(t, []int{0, 1}, seen)
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	clock := clockwork.NewFakeClock()

	l := New(WithClock(clock), WithRegisterer(reg))
	defer l.Close()

	l.After(10*time.Millisecond, func() {})
	l.After(10*time.Millisecond, func() {}).Cancel()

	clock.Advance(10 * time.Millisecond)
	step(t, l)

	assert.Equal(t, 2.0, testutil.ToFloat64(l.metrics.timersArmed))
	assert.Equal(t, 1.0, testutil.ToFloat64(l.metrics.timersFired))
	assert.Equal(t, 1.0, testutil.ToFloat64(l.metrics.timersCancelled))
	assert.Equal(t, 0.0, testutil.ToFloat64(l.metrics.timersPending))
	assert.Equal(t, 1.0, testutil.ToFloat64(l.metrics.tasks))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}
