package internal

import "iter"

type NodeFlags int

const FlagNone NodeFlags = 0

const (
	FlagInHeap NodeFlags = 1 << iota
	FlagDisposed
)

type ReactiveNode struct {
	// called whenever the node is dirty, nil for plain signals
	fn func()

	// the current height of the node in the dependency graph
	height int

	// the node's state
	flags NodeFlags

	subsHead  *DependencyLink
	subsCount int
}

func (r *Runtime) NewNode() *ReactiveNode {
	return &ReactiveNode{}
}

func (n *ReactiveNode) GetHeight() int { return n.height }

func (n *ReactiveNode) HasFlag(f NodeFlags) bool { return n.flags&f != 0 }
func (n *ReactiveNode) AddFlag(f NodeFlags)      { n.flags |= f }
func (n *ReactiveNode) RemoveFlag(f NodeFlags)   { n.flags &^= f }

// HasSubs reports whether at least one computation currently depends on the node.
func (n *ReactiveNode) HasSubs() bool {
	return n.subsCount > 0
}

// Subs returns an iterator over all subscribers
func (n *ReactiveNode) Subs() iter.Seq[*Computed] {
	return func(yield func(*Computed) bool) {
		link := n.subsHead
		for link != nil {
			if !yield(link.sub) {
				return
			}

			link = link.nextSub
		}
	}
}

func (n *ReactiveNode) addSubLink(link *DependencyLink) {
	if n.subsHead == nil {
		n.subsHead = link
		link.prevSub = link // loop to self
		link.nextSub = nil
	} else {
		tail := n.subsHead.prevSub
		tail.nextSub = link
		link.prevSub = tail
		link.nextSub = nil
		n.subsHead.prevSub = link
	}

	n.subsCount++
}

func (n *ReactiveNode) removeSubLink(link *DependencyLink) {
	if n.subsHead == link {
		n.subsHead = link.nextSub
		if n.subsHead != nil {
			n.subsHead.prevSub = link.prevSub // keep the tail pointer
		}
	} else {
		link.prevSub.nextSub = link.nextSub
		if link.nextSub != nil {
			link.nextSub.prevSub = link.prevSub
		} else {
			n.subsHead.prevSub = link.prevSub
		}
	}

	link.prevSub = nil
	link.nextSub = nil
	n.subsCount--
}

type DependencyLink struct {
	dep *Signal
	sub *Computed

	prevDep *DependencyLink
	nextDep *DependencyLink

	prevSub *DependencyLink
	nextSub *DependencyLink
}
