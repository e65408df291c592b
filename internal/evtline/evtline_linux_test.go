//go:build linux

package evtline

import (
	"testing"
	"time"
)

func waitDispatch(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for dispatch")
	}
}

func TestBindFireUnbind(t *testing.T) {
	src := New()
	dispatched := make(chan struct{}, 16)

	if err := src.BindLine(3, func() { dispatched <- struct{}{} }); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := src.Fire(3); err != nil {
		t.Fatalf("fire: %v", err)
	}
	waitDispatch(t, dispatched)

	if err := src.UnbindLine(3, nil); err != nil {
		t.Fatalf("unbind: %v", err)
	}
	if err := src.Fire(3); err == nil {
		t.Fatalf("fire after unbind should fail")
	}
}

func TestSingleHandlerPerLine(t *testing.T) {
	src := New()
	defer src.Close()

	if err := src.BindLine(1, func() {}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := src.BindLine(1, func() {}); err == nil {
		t.Fatalf("second bind of a live line should fail")
	}
	if err := src.BindLine(2, nil); err == nil {
		t.Fatalf("nil entry should fail")
	}
}

func TestUnboundLine(t *testing.T) {
	src := New()
	if err := src.UnbindLine(9, nil); err == nil {
		t.Fatalf("unbind of an unbound line should fail")
	}
	if err := src.Fire(9); err == nil {
		t.Fatalf("fire of an unbound line should fail")
	}
}
