//go:build unix

package sigline

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"SIGUSR1", "USR1"} {
		line, err := Lookup(name)
		if err != nil {
			t.Fatalf("lookup %q: %v", name, err)
		}
		if line != int(unix.SIGUSR1) {
			t.Fatalf("lookup %q = %d, want %d", name, line, int(unix.SIGUSR1))
		}
	}
	if _, err := Lookup("SIGNOSUCH"); err == nil {
		t.Fatalf("lookup of unknown signal should fail")
	}
}

func TestName(t *testing.T) {
	if got := Name(int(unix.SIGUSR1)); got != "SIGUSR1" {
		t.Fatalf("Name(SIGUSR1) = %q", got)
	}
	if got := Name(0); got != "" {
		t.Fatalf("Name(0) = %q, want empty", got)
	}
}

func TestBindDeliverUnbind(t *testing.T) {
	src := New()
	line := int(unix.SIGUSR1)
	dispatched := make(chan struct{}, 16)

	if err := src.BindLine(line, func() { dispatched <- struct{}{} }); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := src.BindLine(line, func() {}); err == nil {
		t.Fatalf("second bind of a live line should fail")
	}

	if err := unix.Kill(unix.Getpid(), unix.SIGUSR1); err != nil {
		t.Fatalf("kill: %v", err)
	}
	select {
	case <-dispatched:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for signal delivery")
	}

	if err := src.UnbindLine(line, nil); err != nil {
		t.Fatalf("unbind: %v", err)
	}
	if err := src.UnbindLine(line, nil); err == nil {
		t.Fatalf("unbind of an unbound line should fail")
	}
}

func TestBindRejectsNonSignals(t *testing.T) {
	src := New()
	if err := src.BindLine(0, func() {}); err == nil {
		t.Fatalf("line 0 should be rejected")
	}
	if err := src.BindLine(100000, func() {}); err == nil {
		t.Fatalf("out-of-range line should be rejected")
	}
}
