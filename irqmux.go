// Package irqmux multiplexes shared logical interrupt handlers onto host
// platforms whose native interrupt API cannot pass an argument to a handler
// and allows at most one handler per line.
//
// A Mux presents the familiar shared-interrupt registration surface —
// Register(line, handler, ctx, flags) / Deregister(line, handler, ctx) —
// over a Binder, the single-handler native layer. Per line it maintains a
// chain of handler records that are all invoked when the line fires, using
// single-word atomic commits so the dispatch path stays lock-free and lines
// never need to be masked during registration.
package irqmux

import "github.com/tinyrange/irqmux/internal/isr"

// -----------------------------------------------------------------------------
// Type Aliases - These re-export types from internal/isr
// -----------------------------------------------------------------------------

// Mux maps interrupt lines to wrapper slots and fans each line's native
// delivery out to every handler registered on it.
type Mux = isr.Mux

// Handler is a logical interrupt handler, invoked with its registration
// context.
type Handler = isr.Handler

// Flags alter how a registration behaves.
type Flags = isr.Flags

// Binder is the native single-handler-per-line interrupt layer. Deliveries
// on one line must be run-to-completion; see the interface's documentation.
type Binder = isr.Binder

// SharedBinder marks a native layer that already supports shared,
// context-carrying handlers; a Mux built over one is a pass-through.
type SharedBinder = isr.SharedBinder

// Option configures a Mux.
type Option = isr.Option

// SlotStats is a point-in-time snapshot of one bound wrapper slot.
type SlotStats = isr.SlotStats

const (
	// Exclusive demands sole ownership of a line.
	Exclusive = isr.FlagExclusive

	// DefaultSlots is the default wrapper pool size.
	DefaultSlots = isr.DefaultSlots
)

// Common sentinel errors.
var (
	ErrInvalidArgument   = isr.ErrInvalidArgument
	ErrExclusiveConflict = isr.ErrExclusiveConflict
	ErrNoFreeSlot        = isr.ErrNoFreeSlot
	ErrNotFound          = isr.ErrNotFound
)

// New builds a Mux over the given native layer.
func New(binder Binder, opts ...Option) *Mux {
	return isr.New(binder, opts...)
}

// WithSlots sets the wrapper pool size.
func WithSlots(n int) Option {
	return isr.WithSlots(n)
}
