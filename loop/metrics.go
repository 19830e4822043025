package loop

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	timersArmed     prometheus.Counter
	timersFired     prometheus.Counter
	timersCancelled prometheus.Counter
	timersDropped   prometheus.Counter
	timersPending   prometheus.Gauge
	tasks           prometheus.Counter
}

func newMetrics(r prometheus.Registerer) *metrics {
	m := &metrics{
		timersArmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sigtime",
			Subsystem: "loop",
			Name:      "timers_armed_total",
			Help:      "Number of one-shot timers armed.",
		}),
		timersFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sigtime",
			Subsystem: "loop",
			Name:      "timers_fired_total",
			Help:      "Number of timer callbacks run on the loop.",
		}),
		timersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sigtime",
			Subsystem: "loop",
			Name:      "timers_cancelled_total",
			Help:      "Number of timers cancelled before their callback ran.",
		}),
		timersDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sigtime",
			Subsystem: "loop",
			Name:      "timers_dropped_total",
			Help:      "Number of fired callbacks dropped because their timer was cancelled while queued.",
		}),
		timersPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sigtime",
			Subsystem: "loop",
			Name:      "timers_pending",
			Help:      "Number of armed timers whose callback has not run yet.",
		}),
		tasks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sigtime",
			Subsystem: "loop",
			Name:      "tasks_total",
			Help:      "Number of tasks executed by the loop.",
		}),
	}

	if r != nil {
		r.MustRegister(
			m.timersArmed,
			m.timersFired,
			m.timersCancelled,
			m.timersDropped,
			m.timersPending,
			m.tasks,
		)
	}

	return m
}
