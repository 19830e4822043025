package sigtime

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/AnatoleLucet/sigtime/loop"
	"github.com/AnatoleLucet/sigtime/sig"
)

type periodicClock struct {
	clock  *Clock
	log    zerolog.Logger
	period time.Duration
	gate   sig.Value[bool]
	out    *sig.Signal[time.Time]

	timer *loop.Timer

	// set once a firing found no dependents, the clock never restarts
	exhausted bool
}

// Every emits the current time every period, see EveryWhen.
func (c *Clock) Every(period time.Duration) *sig.Signal[time.Time] {
	return c.EveryWhen(period, sig.Constant(true))
}

// EveryWhen emits the current time every period while gate is true.
// The signal starts with the time of the call.
//
// The next firing is scheduled from the actual firing time, so the period
// drifts. The clock stops for good the first time it fires with nothing
// depending on its signal. Disposing the owner EveryWhen was called in stops it too.
func (c *Clock) EveryWhen(period time.Duration, gate sig.Value[bool]) *sig.Signal[time.Time] {
	p := &periodicClock{
		clock:  c,
		log:    c.log.With().Str("timer", "every").Dur("period", period).Logger(),
		period: period,
		gate:   gate,
		out:    sig.NewSignal(c.Now()),
	}

	sig.NewEffect(func() {
		p.observe(gate.Read())
	})
	sig.OnCleanup(p.stop)

	return p.out
}

func (p *periodicClock) observe(enabled bool) {
	if p.exhausted {
		return
	}

	if enabled && !p.timer.Active() {
		p.arm()
	} else if !enabled {
		p.timer.Cancel()
	}
}

func (p *periodicClock) arm() {
	p.timer = p.clock.loop.After(p.period, p.tell)
}

func (p *periodicClock) tell() {
	if !p.out.Push(p.clock.Now()) {
		p.exhausted = true
		p.log.Debug().Msg("no dependents left, stopping")
		return
	}

	if p.gate.Peek() && !p.timer.Active() {
		p.arm()
	}
}

func (p *periodicClock) stop() {
	p.timer.Cancel()
}
