package sigtime

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/AnatoleLucet/sigtime/loop"
	"github.com/AnatoleLucet/sigtime/sig"
)

type frameTicker struct {
	clock  *Clock
	log    zerolog.Logger
	period time.Duration
	gate   sig.Value[bool]
	ticks  *sig.Signal[time.Duration]

	previous   time.Time
	wasEnabled bool
	timer      *loop.Timer
}

// FPS ticks targetFPS times per second, see FPSWhen.
func (c *Clock) FPS(targetFPS float64) *sig.Signal[time.Duration] {
	return c.FPSWhen(targetFPS, sig.Constant(true))
}

// FPSWhen ticks targetFPS times per second while gate is true.
// Each tick carries the time elapsed since the previous one; the first tick
// after the gate turns on carries 0, whatever time passed while it was off.
// No tick is emitted while the gate is off, and turning the gate on or off
// does not re-emit the last delta: the signal only changes on ticks.
//
// targetFPS must be positive. Disposing the owner FPSWhen was called in stops the ticker.
func (c *Clock) FPSWhen(targetFPS float64, gate sig.Value[bool]) *sig.Signal[time.Duration] {
	f := &frameTicker{
		clock:  c,
		period: time.Duration(float64(time.Second) / targetFPS),
		gate:   gate,
		ticks:  sig.NewSignal[time.Duration](0),

		previous:   c.Now(),
		wasEnabled: true, // being on from the start is not a rising edge
	}
	f.log = c.log.With().Str("timer", "fps").Dur("period", f.period).Logger()

	sig.NewEffect(func() {
		f.observe(gate.Read())
	})
	sig.OnCleanup(f.stop)

	return f.ticks
}

// observe runs on every event of the gate.
func (f *frameTicker) observe(enabled bool) {
	switch {
	case enabled && !f.timer.Active():
		f.arm(!f.wasEnabled)
	case !enabled && f.wasEnabled:
		f.timer.Cancel()
		f.log.Debug().Msg("gate closed")
	}

	f.wasEnabled = enabled
}

func (f *frameTicker) arm(rising bool) {
	f.timer = f.clock.loop.After(f.period, func() {
		f.tick(rising)
	})
}

func (f *frameTicker) tick(rising bool) {
	now := f.clock.Now()

	var diff time.Duration
	if !rising {
		diff = max(now.Sub(f.previous), 0)
	}
	f.previous = now

	f.ticks.Write(diff)

	// the propagation may have flipped the gate and re-armed already
	if f.gate.Peek() && !f.timer.Active() {
		f.arm(false)
	}
}

func (f *frameTicker) stop() {
	if f.timer.Cancel() {
		f.log.Debug().Msg("stopped")
	}
}
