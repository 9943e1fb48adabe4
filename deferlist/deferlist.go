// Package deferlist implements a LIFO list of zero-argument actions with a
// node pool that amortizes allocation across add/run cycles.
package deferlist

// node is an intrusive singly-linked list entry. fn is cleared on release so
// a released node never pins a closure's captures past its run.
type node struct {
	next *node
	fn   func()
}

// List is the head of a LIFO chain of deferred actions. The zero value is an
// empty list.
type List struct {
	head *node
}

// Empty reports whether l has no pending actions.
func (l *List) Empty() bool {
	return l.head == nil
}

// Pool caches released nodes so steady-state Add/Run does not allocate. The
// zero value is an empty pool. A Pool is not safe for concurrent use; each
// OS thread's strand state owns exactly one, shared across every strand
// running on that thread.
type Pool struct {
	free *node
}

// Add chains fn at the head of l, taking a node from p if one is available.
// Go's allocator does not expose an out-of-memory condition callers can
// recover from, so unlike the C original's strand_defer_add, Add never
// fails; it still returns an error to keep the call site shaped like the
// rest of the package's fallible operations.
func (p *Pool) Add(l *List, fn func()) error {
	n := p.free
	if n != nil {
		p.free = n.next
	} else {
		n = &node{}
	}
	n.fn = fn
	n.next = l.head
	l.head = n
	return nil
}

// Run detaches l's entire chain, then walks it in LIFO order running each
// action and returning its node to p. Actions added by a running action
// attach to whatever list is current at the time they call Add — not to the
// chain Run already detached — so they are not picked up by this Run call.
func (p *Pool) Run(l *List) {
	n := l.head
	l.head = nil
	for n != nil {
		next := n.next
		fn := n.fn
		fn()
		n.fn = nil
		n.next = p.free
		p.free = n
		n = next
	}
}
