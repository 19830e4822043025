package sig_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/sigtime"
	"github.com/AnatoleLucet/sigtime/loop"
	"github.com/AnatoleLucet/sigtime/sig"
)

const ms = time.Millisecond

func newClock(t *testing.T) (*sigtime.Clock, *clockwork.FakeClock, *loop.Loop) {
	t.Helper()

	fake := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	l := loop.New(loop.WithClock(fake))
	t.Cleanup(l.Close)

	return sigtime.New(l), fake, l
}

// advance moves the fake clock and runs the n callbacks it fires.
func advance(t *testing.T, fake *clockwork.FakeClock, l *loop.Loop, d time.Duration, n int) {
	t.Helper()

	fake.Advance(d)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for range n {
		require.NoError(t, l.Step(ctx))
	}
}

func assertIdle(t *testing.T, l *loop.Loop) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, l.Step(ctx), context.DeadlineExceeded)
}

func record[T any](s sig.Value[T]) *[]T {
	log := []T{}
	sig.NewEffect(func() {
		log = append(log, s.Read())
	})

	return &log
}
