package isr

import (
	"fmt"
	"reflect"
	"sync"
)

// DefaultSlots is the default wrapper pool size: enough for the four PCI
// lines plus spares.
const DefaultSlots = 7

// Option configures a Mux.
type Option func(*Mux)

// WithSlots sets the wrapper pool size. Values below one are ignored.
func WithSlots(n int) Option {
	return func(m *Mux) {
		if n >= 1 {
			m.poolSize = n
		}
	}
}

// Mux maps interrupt lines to wrapper slots and fans each line's native
// delivery out to every handler registered on it.
type Mux struct {
	mu sync.Mutex // serializes Register/Deregister; never taken by dispatch

	binder   Binder
	shared   SharedBinder // non-nil when binder natively supports sharing
	poolSize int
	slots    []*slot
}

// New builds a Mux over the given native layer. If binder implements
// SharedBinder the mux degenerates to a pass-through and the pool is unused.
func New(binder Binder, opts ...Option) *Mux {
	m := &Mux{
		binder:   binder,
		poolSize: DefaultSlots,
	}
	m.shared, _ = binder.(SharedBinder)
	for _, opt := range opts {
		opt(m)
	}
	m.slots = make([]*slot, m.poolSize)
	for i := range m.slots {
		s := &slot{line: lineFree}
		s.entry = s.dispatch
		m.slots[i] = s
	}
	return m
}

// Register installs handler on line. Every subsequent delivery on line
// invokes handler(ctx), chained with any other handlers on the line in
// most-recently-registered-first order. FlagExclusive demands sole use of
// the line. Binding a previously unused line consumes a wrapper slot;
// ErrNoFreeSlot reports pool exhaustion.
func (m *Mux) Register(line int, handler Handler, ctx any, flags Flags) error {
	if line < 0 || handler == nil {
		return ErrInvalidArgument
	}
	if m.shared != nil {
		return m.shared.BindShared(line, handler, ctx, flags)
	}

	rec := &record{
		handler: handler,
		fn:      reflect.ValueOf(handler).Pointer(),
		ctx:     ctx,
		flags:   flags,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var free *slot
	for _, s := range m.slots {
		if s.line == line {
			for r := s.head.Load(); r != nil; r = r.next.Load() {
				if (flags|r.flags)&FlagExclusive != 0 {
					return ErrExclusiveConflict
				}
			}
			// The head store is the commit point: a concurrent dispatch
			// sees either the old chain or the new record in front of it,
			// never a torn state. No need to mask the line.
			rec.next.Store(s.head.Load())
			s.head.Store(rec)
			return nil
		}
		if s.line == lineFree && free == nil {
			free = s
		}
	}

	if free == nil {
		return ErrNoFreeSlot
	}
	if err := m.binder.BindLine(line, free.entry); err != nil {
		return fmt.Errorf("isr: bind line %d: %w", line, err)
	}
	free.line = line
	// Safe even if the line fires between BindLine and this store: the
	// entry finds an empty chain and does nothing.
	free.head.Store(rec)
	return nil
}

// Deregister removes the registration matching (line, handler, ctx) exactly.
// Handlers compare by code pointer, so two registrations sharing a function
// body are told apart only by their contexts.
// Removing the last handler on a line unbinds the native handler and
// returns the slot to the pool. A triple that matches no live registration
// reports ErrNotFound and changes nothing.
func (m *Mux) Deregister(line int, handler Handler, ctx any) error {
	if line < 0 || handler == nil {
		return ErrInvalidArgument
	}
	if m.shared != nil {
		return m.shared.UnbindShared(line, handler, ctx)
	}

	fn := reflect.ValueOf(handler).Pointer()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.slots {
		if s.line != line {
			continue
		}
		var prev *record
		for r := s.head.Load(); r != nil; prev, r = r, r.next.Load() {
			if r.fn != fn || !sameContext(r.ctx, ctx) {
				continue
			}
			// Single-store unlink. The record is not modified, so a
			// dispatch that already reached it finishes on the old links.
			if prev == nil {
				s.head.Store(r.next.Load())
			} else {
				prev.next.Store(r.next.Load())
			}
			if s.head.Load() == nil {
				// Last handler gone; release the wrapper slot. An unbind
				// failure leaves the slot permanently miswired (the native
				// layer still targets an entry whose chain is gone), which
				// no caller can repair.
				if err := m.binder.UnbindLine(line, s.entry); err != nil {
					panic(fmt.Sprintf("isr: unbind line %d: %v", line, err))
				}
				s.line = lineFree
			}
			return nil
		}
		return ErrNotFound
	}
	return ErrNotFound
}

// sameContext compares registration contexts without panicking on
// non-comparable dynamic types.
func sameContext(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}
	return a == b
}
