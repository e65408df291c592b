//go:build linux

// Package evtline is an eventfd-backed native interrupt layer: every bound
// line owns one eventfd and one delivery goroutine that invokes the line's
// entry point. Like the platforms it stands in for, it accepts exactly one
// argument-less handler per line, and deliveries on a line are
// run-to-completion because a single goroutine drains the counter.
package evtline

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

type eventLine struct {
	fd    int
	entry func()
	stop  atomic.Bool
	done  chan struct{}
}

// Source hands out eventfd-backed interrupt lines.
type Source struct {
	mu    sync.Mutex
	lines map[int]*eventLine
}

func New() *Source {
	return &Source{lines: map[int]*eventLine{}}
}

// BindLine installs entry as the line's one handler and starts its delivery
// goroutine. Binding a line that already has a handler fails.
func (s *Source) BindLine(line int, entry func()) error {
	if entry == nil {
		return fmt.Errorf("evtline: nil entry for line %d", line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lines[line]; ok {
		return fmt.Errorf("evtline: line %d already has a handler", line)
	}

	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return fmt.Errorf("evtline: eventfd for line %d: %w", line, err)
	}

	l := &eventLine{fd: fd, entry: entry, done: make(chan struct{})}
	s.lines[line] = l
	go l.deliver()
	return nil
}

// UnbindLine removes the line's handler, joins its delivery goroutine and
// closes the eventfd. Must not race Fire on the same line.
func (s *Source) UnbindLine(line int, entry func()) error {
	s.mu.Lock()
	l, ok := s.lines[line]
	if ok {
		delete(s.lines, line)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("evtline: line %d has no handler", line)
	}

	l.stop.Store(true)
	if err := raise(l.fd); err != nil {
		return fmt.Errorf("evtline: wake line %d: %w", line, err)
	}
	<-l.done
	if err := unix.Close(l.fd); err != nil {
		return fmt.Errorf("evtline: close line %d: %w", line, err)
	}
	return nil
}

// Fire raises the line's interrupt. Deliveries coalesce like a level line:
// N fires produce between one and N dispatches.
func (s *Source) Fire(line int) error {
	s.mu.Lock()
	l, ok := s.lines[line]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("evtline: line %d has no handler", line)
	}
	if err := raise(l.fd); err != nil {
		return fmt.Errorf("evtline: fire line %d: %w", line, err)
	}
	return nil
}

// Close unbinds every line.
func (s *Source) Close() error {
	s.mu.Lock()
	lines := make([]int, 0, len(s.lines))
	for line := range s.lines {
		lines = append(lines, line)
	}
	s.mu.Unlock()

	for _, line := range lines {
		if err := s.UnbindLine(line, nil); err != nil {
			return err
		}
	}
	return nil
}

func (l *eventLine) deliver() {
	defer close(l.done)
	var buf [8]byte
	for {
		_, err := unix.Read(l.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return
		}
		if l.stop.Load() {
			return
		}
		l.entry()
	}
}

func raise(fd int) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(fd, buf[:])
	return err
}
