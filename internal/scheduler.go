package internal

type Scheduler struct {
	scheduled bool
	running   bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		scheduled: false,
		running:   false,
	}
}

// Run executes step until no more work is scheduled.
// Work scheduled while running (e.g. effects writing signals) is picked up by the same run.
func (s *Scheduler) Run(step func()) {
	if s.running {
		return
	}

	s.running = true
	defer func() { s.running = false }()

	for s.scheduled {
		s.scheduled = false

		step()
	}
}

func (s *Scheduler) Schedule() {
	s.scheduled = true
}

func (s *Scheduler) IsRunning() bool {
	return s.running
}
