package loop

import (
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const defaultQueueSize = 256

type options struct {
	clock      clockwork.Clock
	logger     zerolog.Logger
	registerer prometheus.Registerer
	queueSize  int
}

// Option configures a Loop.
type Option func(*options)

// WithClock sets the clock the loop reads time from and arms timers on.
// Tests pass a clockwork fake clock.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithLogger sets the logger, the loop is silent by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegisterer registers the loop metrics on r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

// WithQueueSize sets how many fired callbacks may wait for the loop before timer goroutines block.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

func defaultOptions() options {
	return options{
		clock:     clockwork.NewRealClock(),
		logger:    zerolog.Nop(),
		queueSize: defaultQueueSize,
	}
}
