package router

import "sync/atomic"

// Clock is the monotonic navigation sequence.
//
// Every state change is stamped with the next value. Outlets compare the
// value captured when a load started against Current to discard stale
// results. Safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
