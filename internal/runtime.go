package internal

type Runtime struct {
	heap         *PriorityHeap
	tracker      *Tracker
	scheduler    *Scheduler
	nodeQueue    *NodeQueue
	effectQueue  *EffectQueue
	settledQueue *SettledQueue

	// nesting depth of NewBatch calls, writes are only flushed at depth 0
	batchDepth int
}

func NewRuntime() *Runtime {
	return &Runtime{
		heap:         NewHeap(),
		tracker:      NewTracker(),
		scheduler:    NewScheduler(),
		nodeQueue:    NewNodeQueue(),
		effectQueue:  NewEffectQueue(),
		settledQueue: NewSettledQueue(),
	}
}

func (r *Runtime) Schedule() {
	r.scheduler.Schedule()

	if r.batchDepth == 0 {
		r.Flush()
	}
}

// NewBatch runs fn and flushes once it returns, instead of after each write.
// Nested batches are absorbed by the outermost one.
func (r *Runtime) NewBatch(fn func()) {
	r.batchDepth++
	defer func() {
		r.batchDepth--
		if r.batchDepth == 0 {
			r.Flush()
		}
	}()

	fn()
}

// Flush propagates every pending write through the graph, then runs the effects.
// Nested calls (from effects writing signals) are absorbed by the outer flush.
func (r *Runtime) Flush() {
	if r.scheduler.IsRunning() {
		return
	}

	r.scheduler.Run(func() {
		r.heap.Drain(r.recompute)

		r.nodeQueue.Commit()

		r.effectQueue.RunEffects(EffectRender)
		r.effectQueue.RunEffects(EffectUser)
	})

	r.settledQueue.Run()
}

// OnSettled queues fn to run once the next flush completes.
func (r *Runtime) OnSettled(fn func()) {
	r.settledQueue.Enqueue(fn)
}

func (r *Runtime) CurrentOwner() *Owner {
	return r.tracker.CurrentOwner()
}

func (r *Runtime) OnCleanup(fn func()) {
	owner := r.CurrentOwner()
	if owner != nil {
		owner.OnCleanup(fn)
	}
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

func (r *Runtime) recompute(node *Computed) {
	if node.fn == nil || node.IsDisposed() {
		return
	}

	oldValue := node.Value()

	node.ClearDeps()

	r.tracker.RunWithComputation(node, node.fn)

	if node.equal != nil && node.equal(oldValue, node.Value()) {
		return
	}

	r.heap.InsertAll(node.Subs())
}
