package core

import (
	"fmt"
	"sync/atomic"
)

// CounterSource provides the external monotonic counter the auction
// derives its windows from, typically the host chain's block height. This
// interface enables dependency injection for deterministic testing.
type CounterSource interface {
	// Current returns the latest observed counter value.
	Current() uint64
}

// MonotonicCounter is a CounterSource fed by the host. It only moves
// forward: a report below the last observed value is rejected.
type MonotonicCounter struct {
	v atomic.Uint64
}

// NewMonotonicCounter returns a counter starting at initial.
func NewMonotonicCounter(initial uint64) *MonotonicCounter {
	c := &MonotonicCounter{}
	c.v.Store(initial)
	return c
}

// Current returns the latest observed counter value.
func (c *MonotonicCounter) Current() uint64 {
	return c.v.Load()
}

// Set records a new counter value reported by the host. Reporting the same
// value twice is harmless; a lower value fails with ErrCounterRegression.
func (c *MonotonicCounter) Set(v uint64) error {
	for {
		cur := c.v.Load()
		if v < cur {
			return fmt.Errorf("%w: have %d, got %d", ErrCounterRegression, cur, v)
		}
		if c.v.CompareAndSwap(cur, v) {
			return nil
		}
	}
}

// Advance moves the counter forward by delta and returns the new value.
func (c *MonotonicCounter) Advance(delta uint64) uint64 {
	return c.v.Add(delta)
}
