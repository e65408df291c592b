package isr

import "sync/atomic"

// lineFree marks a slot with no bound line.
const lineFree = -1

// record is one registered (handler, context, flags) triple, linked into its
// slot's chain. Records are immutable after the store that publishes them
// except for next, which only ever changes by a single atomic store. An
// unlinked record is never touched again, so a dispatcher that already
// loaded a link into it finishes the old chain safely.
type record struct {
	handler Handler
	fn      uintptr // handler code pointer, the Deregister match key
	ctx     any
	flags   Flags

	next atomic.Pointer[record]
}

// slot is one wrapper in the pool. entry is built once at pool construction
// and is the identity the native layer binds to; it is never reassigned.
// line is guarded by the owning Mux's mutex. head is the chain anchor and
// the only word dispatch reads to find work.
type slot struct {
	entry func()
	line  int
	head  atomic.Pointer[record]

	dispatches  atomic.Uint64
	invocations atomic.Uint64
}

// dispatch is the slot's native-visible entry point. It walks the chain and
// invokes every handler in current chain order. An empty chain (a slot that
// was just vacated, or bound but not yet populated) dispatches nothing.
// It must not allocate, block, or take the registration mutex.
func (s *slot) dispatch() {
	s.dispatches.Add(1)
	for r := s.head.Load(); r != nil; r = r.next.Load() {
		r.handler(r.ctx)
		s.invocations.Add(1)
	}
}

// handlers counts the chain under the registration mutex.
func (s *slot) handlers() int {
	n := 0
	for r := s.head.Load(); r != nil; r = r.next.Load() {
		n++
	}
	return n
}
