// Package sigtime produces signals driven by a clock: frame tickers, periodic
// clocks, time windows after events and delayed or timestamped copies of
// other signals.
//
// Everything here schedules on a loop.Loop and must be built on the goroutine
// that created the loop (or from inside loop callbacks).
package sigtime

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/AnatoleLucet/sigtime/loop"
)

// Clock is the time source signals are derived from.
type Clock struct {
	loop *loop.Loop
	log  zerolog.Logger
}

// New creates a clock reading time from, and arming timers on, l.
func New(l *loop.Loop) *Clock {
	return &Clock{
		loop: l,
		log:  l.Logger().With().Str("component", "sigtime").Logger(),
	}
}

// Now reads the current time.
func (c *Clock) Now() time.Time {
	return c.loop.Now()
}

// Loop returns the loop timers are armed on.
func (c *Clock) Loop() *loop.Loop {
	return c.loop
}

// ToLocalTime converts t to the local calendar for display.
func ToLocalTime(t time.Time) time.Time {
	return t.Local()
}
