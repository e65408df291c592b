package isr

// SlotStats is a point-in-time snapshot of one bound wrapper slot.
type SlotStats struct {
	Line        int
	Handlers    int
	Dispatches  uint64
	Invocations uint64
}

// Stats snapshots every bound slot. Counters are read racily against live
// deliveries, so Dispatches and Invocations may lag each other by an
// in-flight dispatch. A pass-through Mux has no slots and reports nothing.
func (m *Mux) Stats() []SlotStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []SlotStats
	for _, s := range m.slots {
		if s.line == lineFree {
			continue
		}
		out = append(out, SlotStats{
			Line:        s.line,
			Handlers:    s.handlers(),
			Dispatches:  s.dispatches.Load(),
			Invocations: s.invocations.Load(),
		})
	}
	return out
}
