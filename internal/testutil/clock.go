// Package testutil provides deterministic clocks and id generators
// for tests.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a thread-safe deterministic clock for tests. Each
// call to Now advances a fixed step from a known base, so timestamps
// in assertions are predictable and strictly increasing.
type ManualClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewManualClock creates a clock whose first Now() returns base and
// whose subsequent calls advance by step.
func NewManualClock(base time.Time, step time.Duration) *ManualClock {
	return &ManualClock{next: base, step: step}
}

// Now returns the next timestamp and advances the clock.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// Peek returns the timestamp the next Now() call will produce,
// without advancing.
func (c *ManualClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}
