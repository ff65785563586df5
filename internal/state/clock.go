package state

import (
	"sync"
	"time"
)

// Clock supplies mutation timestamps. Implemented by SystemClock
// (production) and testutil.ManualClock (tests).
type Clock interface {
	// Now returns a timestamp strictly greater than any previously
	// returned by this clock.
	Now() time.Time
}

// SystemClock returns wall-clock time in UTC, nudged forward by a
// nanosecond whenever the wall clock has not advanced since the last
// call. This keeps UpdatedAt strictly monotonic per process even on
// platforms with coarse timer resolution or after a clock step
// backwards.
type SystemClock struct {
	mu   sync.Mutex
	last time.Time
}

// NewSystemClock creates a SystemClock.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now implements Clock.
func (c *SystemClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(c.last) {
		now = c.last.Add(time.Nanosecond)
	}
	c.last = now
	return now
}
