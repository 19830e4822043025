package internal

type EffectType int

const (
	EffectRender EffectType = iota
	EffectUser
)

type Effect struct {
	*Computed

	typ EffectType
}

// NewEffect creates a computation whose body runs once values are committed.
// The first run is queued right away and flushed unless a batch or a flush is in progress.
func (r *Runtime) NewEffect(typ EffectType, effect func()) *Effect {
	e := &Effect{typ: typ}
	e.Computed = r.newComputed(nil, nil)

	run := func() {
		r.tracker.RunUntracked(e.Reset)
		effect()
	}

	e.fn = func() {
		r.effectQueue.Enqueue(typ, func() {
			if e.IsDisposed() {
				return
			}

			e.ClearDeps()
			r.tracker.RunWithComputation(e.Computed, run)
		})
	}

	e.fn()
	r.Schedule()

	return e
}
