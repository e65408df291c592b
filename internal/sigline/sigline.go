//go:build unix

// Package sigline is a native interrupt layer whose lines are POSIX signal
// numbers. Each bound line gets a Notify channel and one delivery goroutine
// invoking the line's entry point, so deliveries on a line are
// run-to-completion. Exactly one handler per line: the single-handler
// constraint shared-interrupt multiplexing exists to work around.
package sigline

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

type sigLine struct {
	ch   chan os.Signal
	quit chan struct{}
	done chan struct{}
}

// Source hands out signal-backed interrupt lines.
type Source struct {
	mu    sync.Mutex
	lines map[int]*sigLine
}

func New() *Source {
	return &Source{lines: map[int]*sigLine{}}
}

// BindLine installs entry as the one handler for the signal numbered line.
func (s *Source) BindLine(line int, entry func()) error {
	if entry == nil {
		return fmt.Errorf("sigline: nil entry for line %d", line)
	}
	sig := syscall.Signal(line)
	if unix.SignalName(sig) == "" {
		return fmt.Errorf("sigline: line %d is not a signal number", line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lines[line]; ok {
		return fmt.Errorf("sigline: %s already has a handler", unix.SignalName(sig))
	}

	l := &sigLine{
		ch:   make(chan os.Signal, 64),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	signal.Notify(l.ch, sig)
	s.lines[line] = l
	go l.deliver(entry)

	slog.Debug("sigline: bound", "line", line, "signal", unix.SignalName(sig))
	return nil
}

// UnbindLine stops signal delivery for line and joins its goroutine.
func (s *Source) UnbindLine(line int, entry func()) error {
	s.mu.Lock()
	l, ok := s.lines[line]
	if ok {
		delete(s.lines, line)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("sigline: line %d has no handler", line)
	}

	signal.Stop(l.ch)
	close(l.quit)
	<-l.done

	slog.Debug("sigline: unbound", "line", line)
	return nil
}

func (l *sigLine) deliver(entry func()) {
	defer close(l.done)
	for {
		select {
		case <-l.quit:
			return
		case <-l.ch:
			entry()
		}
	}
}

// Lookup resolves a signal name such as "SIGUSR1" (or "USR1") to its line
// number.
func Lookup(name string) (int, error) {
	sig := unix.SignalNum(name)
	if sig == 0 {
		sig = unix.SignalNum("SIG" + name)
	}
	if sig == 0 {
		return 0, fmt.Errorf("sigline: unknown signal %q", name)
	}
	return int(sig), nil
}

// Name returns the platform name of a signal line, or "" if line is not a
// signal number.
func Name(line int) string {
	return unix.SignalName(syscall.Signal(line))
}
