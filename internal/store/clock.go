package store

import "sync/atomic"

// Clock is a monotonic logical clock used to stamp fetch epochs.
//
// Every fetch takes a fresh epoch; only the response carrying the store's
// latest epoch is allowed to commit. This makes stale-response discard an
// explicit comparison instead of a wall-clock race.
//
// Thread-safety: safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// Next returns the next epoch and advances the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current epoch without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
