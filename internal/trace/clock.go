package trace

import "sync/atomic"

// Clock is a monotonic logical clock for record ordering.
//
// Every decoded record is stamped with a strictly increasing seq number
// from this clock. This ensures:
//   - Deterministic ordering (no wall-clock race conditions)
//   - Conflict direction is derivable from seq comparison alone
//   - Re-running analysis on the same input produces identical output
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though the decoder's sequential design means only one goroutine
// typically calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
