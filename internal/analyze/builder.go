package analyze

import "github.com/roach88/untangle/internal/op"

// ProcessSet accumulates operations per pid in trace order. Unknown pids
// are always valid: the process entry is created lazily on first sight.
// Iteration order is first-seen-pid, not numeric pid, matching natural
// trace chronology.
type ProcessSet struct {
	order []int
	byID  map[int]*op.Process
}

// NewProcessSet creates an empty set.
func NewProcessSet() *ProcessSet {
	return &ProcessSet{byID: make(map[int]*op.Process)}
}

// Record appends an operation to pid's log, creating the process entry on
// first sight.
func (s *ProcessSet) Record(pid int, o op.Operation) {
	p, ok := s.byID[pid]
	if !ok {
		p = &op.Process{ID: pid}
		s.byID[pid] = p
		s.order = append(s.order, pid)
	}
	p.Append(o)
}

// Get returns the process for pid, if seen.
func (s *ProcessSet) Get(pid int) (*op.Process, bool) {
	p, ok := s.byID[pid]
	return p, ok
}

// All returns every process in first-seen order. The caller must not
// modify the returned slice.
func (s *ProcessSet) All() []*op.Process {
	out := make([]*op.Process, len(s.order))
	for i, pid := range s.order {
		out[i] = s.byID[pid]
	}
	return out
}

// Len returns the number of distinct pids seen.
func (s *ProcessSet) Len() int {
	return len(s.order)
}
