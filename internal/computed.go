package internal

type Computed struct {
	*Owner
	*Signal

	// decides whether a recomputed value is worth propagating.
	// nil means every recomputation is an event.
	equal func(a, b any) bool

	depsHead *DependencyLink

	compute func() any
}

// NewComputed creates a derived node and computes its first value right away.
func (r *Runtime) NewComputed(compute func() any, equal func(a, b any) bool) *Computed {
	c := r.newComputed(compute, equal)
	r.recompute(c)

	return c
}

func (r *Runtime) newComputed(compute func() any, equal func(a, b any) bool) *Computed {
	c := &Computed{
		Owner:  r.NewOwner(),
		Signal: r.NewSignal(nil),

		equal:   equal,
		compute: compute,
	}
	c.fn = c.run

	c.OnDispose(func() {
		r.heap.Remove(c)
		c.ClearDeps()
		c.AddFlag(FlagDisposed)
	})

	return c
}

func (c *Computed) run() {
	c.rt.tracker.RunUntracked(c.Reset)

	value := c.compute()
	if c.pendingValue == nil {
		c.rt.nodeQueue.Enqueue(c.Signal)
	}
	c.pendingValue = &value
}

// Link creates a bidirectional dependency link between this node (subcriber) and the given node (dependency).
func (c *Computed) Link(dep *Signal) {
	// dont link if already present as the most recent dependency
	if c.depsHead != nil {
		tail := c.depsHead.prevDep
		if tail.dep == dep {
			return
		}
	}

	link := &DependencyLink{dep: dep, sub: c}

	c.addDepLink(link)
	dep.addSubLink(link)

	// Update subscriber height if needed
	if dep.height >= c.height {
		c.height = dep.height + 1
	}
}

// ClearDeps removes all dependencies
func (c *Computed) ClearDeps() {
	for link := c.depsHead; link != nil; {
		next := link.nextDep
		link.dep.removeSubLink(link)
		link = next
	}

	c.depsHead = nil
}

func (c *Computed) IsDisposed() bool {
	return c.HasFlag(FlagDisposed)
}

func (c *Computed) addDepLink(link *DependencyLink) {
	if c.depsHead == nil {
		c.depsHead = link
		link.prevDep = link // loop to self
		link.nextDep = nil
	} else {
		tail := c.depsHead.prevDep
		tail.nextDep = link
		link.prevDep = tail
		link.nextDep = nil
		c.depsHead.prevDep = link
	}
}
