package internal

import (
	"iter"
)

type Owner struct {
	runtime *Runtime

	// cleanup functions to be called when the owner is reset or disposed
	cleanups []func()

	// functions to be called each time the owner is disposed
	disposers []func()

	// panic error handlers
	catchers []func(any)

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner
}

// NewOwner creates an owner attached to the current owner, if any.
func (r *Runtime) NewOwner() *Owner {
	o := &Owner{
		runtime:  r,
		cleanups: make([]func(), 0),
	}

	if parent := r.CurrentOwner(); parent != nil {
		parent.AddChild(o)
	}

	return o
}

func (o *Owner) Run(fn func()) {
	o.runtime.tracker.RunWithOwner(o, fn)
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (parent *Owner) removeChild(child *Owner) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else if parent.childrenHead == child {
		parent.childrenHead = child.nextSibling
	}

	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	}

	child.parent = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

func (n *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := n.childrenHead

		for child != nil {
			next := child.nextSibling
			if !yield(child) {
				return
			}

			child = next
		}
	}
}

// Reset disposes the children and runs the cleanups, leaving the owner usable.
func (n *Owner) Reset() {
	n.DisposeChildren()

	cleanups := n.cleanups
	n.cleanups = nil
	for _, cleanup := range cleanups {
		cleanup()
	}
}

func (n *Owner) Dispose() {
	n.Reset()

	for _, fn := range n.disposers {
		fn()
	}

	if n.parent != nil {
		n.parent.removeChild(n)
	}
}

func (n *Owner) DisposeChildren() {
	for child := range n.Children() {
		child.Dispose()
	}
	n.childrenHead = nil
}

func (n *Owner) OnCleanup(fn func()) {
	n.cleanups = append(n.cleanups, fn)
}

func (n *Owner) OnDispose(fn func()) {
	n.disposers = append(n.disposers, fn)
}

func (n *Owner) OnError(fn func(any)) {
	n.catchers = append(n.catchers, fn)
}

// recover hands a panic to the closest owner with error listeners.
// Without any listener the panic keeps propagating.
func (n *Owner) recover() {
	r := recover()
	if r == nil {
		return
	}

	for o := n; o != nil; o = o.parent {
		if len(o.catchers) == 0 {
			continue
		}

		for _, catcher := range o.catchers {
			catcher(r)
		}
		return
	}

	panic(r)
}
