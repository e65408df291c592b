// Package isr multiplexes shared logical interrupt handlers onto platforms
// whose native interrupt API supports only a single, argument-less handler
// per line.
//
// A Mux owns a fixed pool of wrapper slots. Each slot carries an immutable
// dispatch entry point that the native layer invokes when its bound line
// fires; the entry walks the slot's chain of handler records and invokes
// every handler in it. Registration and deregistration serialize on a mutex,
// but every chain mutation a dispatcher can observe is a single atomic
// pointer store, so dispatch stays lock-free and never has to mask the line.
package isr

import "errors"

// Handler is a logical interrupt handler. The mux invokes it with the
// context value it was registered with.
type Handler func(ctx any)

// Flags alter how a registration behaves.
type Flags uint8

const (
	// FlagExclusive demands sole ownership of the line. Registration fails
	// if the line already has a handler, and later registrations on the
	// line fail while the exclusive handler is installed.
	FlagExclusive Flags = 1 << 0
)

// Binder is the native interrupt layer: it can install at most one
// argument-less handler per line.
//
// Precondition: deliveries on a single line must be run-to-completion. The
// Binder must not invoke a line's entry again while an earlier invocation of
// the same entry is still executing. Deliveries on different lines may be
// concurrent with each other and with registration calls.
type Binder interface {
	// BindLine installs entry as the line's one native handler.
	BindLine(line int, entry func()) error
	// UnbindLine removes the entry previously installed for line.
	UnbindLine(line int, entry func()) error
}

// SharedBinder is implemented by native layers that already support shared,
// context-carrying handlers. When a Mux is built over one, Register and
// Deregister pass straight through and the slot pool goes unused.
type SharedBinder interface {
	Binder

	BindShared(line int, handler Handler, ctx any, flags Flags) error
	UnbindShared(line int, handler Handler, ctx any) error
}

var (
	// ErrInvalidArgument reports a nil handler or a negative line.
	ErrInvalidArgument = errors.New("invalid line or handler")

	// ErrExclusiveConflict reports that a registration demanded exclusive
	// use of a line that is already in use, or tried to share a line owned
	// exclusively.
	ErrExclusiveConflict = errors.New("exclusive use of line conflicts with existing handler")

	// ErrNoFreeSlot reports that every wrapper slot is bound to some other
	// line. The caller may retry after handlers on another line deregister.
	ErrNoFreeSlot = errors.New("no free wrapper slot")

	// ErrNotFound reports that no registration matches the given
	// (line, handler, context) triple.
	ErrNotFound = errors.New("registration not found")
)
