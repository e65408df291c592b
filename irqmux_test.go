package irqmux_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/tinyrange/irqmux"
)

// nativeLayer is a minimal single-handler-per-line Binder.
type nativeLayer struct {
	mu      sync.Mutex
	entries map[int]func()
}

func (n *nativeLayer) BindLine(line int, entry func()) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.entries[line]; ok {
		return fmt.Errorf("line %d already bound", line)
	}
	n.entries[line] = entry
	return nil
}

func (n *nativeLayer) UnbindLine(line int, entry func()) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entries, line)
	return nil
}

func (n *nativeLayer) fire(line int) {
	n.mu.Lock()
	entry := n.entries[line]
	n.mu.Unlock()
	if entry != nil {
		entry()
	}
}

func TestPublicSurface(t *testing.T) {
	native := &nativeLayer{entries: map[int]func(){}}
	mux := irqmux.New(native, irqmux.WithSlots(2))

	var got []string
	logTo := func(ctx any) { got = append(got, ctx.(string)) }

	if err := mux.Register(10, logTo, "first", 0); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := mux.Register(10, logTo, "second", 0); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := mux.Register(10, logTo, "owner", irqmux.Exclusive); !errors.Is(err, irqmux.ErrExclusiveConflict) {
		t.Fatalf("exclusive on shared line: got %v", err)
	}

	native.fire(10)
	if len(got) != 2 || got[0] != "second" || got[1] != "first" {
		t.Fatalf("unexpected order %v", got)
	}

	stats := mux.Stats()
	if len(stats) != 1 || stats[0].Line != 10 || stats[0].Handlers != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	if err := mux.Deregister(10, logTo, "first"); err != nil {
		t.Fatalf("deregister: %v", err)
	}
	if err := mux.Deregister(10, logTo, "second"); err != nil {
		t.Fatalf("deregister: %v", err)
	}
	if err := mux.Deregister(10, logTo, "second"); !errors.Is(err, irqmux.ErrNotFound) {
		t.Fatalf("double deregister: got %v", err)
	}
}
