package testing

import (
	"sync"
	"time"
)

// DefaultStart is where a fresh ManualClock starts: 2025-01-01 00:00:00 UTC.
var DefaultStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// ManualClock is a tx.Clock moved only by the test. Ledger timestamps are
// whole unix seconds, so the clock truncates to the second.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock() *ManualClock {
	return NewManualClockAt(DefaultStart)
}

func NewManualClockAt(t time.Time) *ManualClock {
	return &ManualClock{now: t.UTC().Truncate(time.Second)}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Unix is Now in the unit operations see.
func (c *ManualClock) Unix() int64 {
	return c.Now().Unix()
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d).Truncate(time.Second)
}

func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC().Truncate(time.Second)
}

// SetUnix jumps to a ledger timestamp, e.g. an event deadline.
func (c *ManualClock) SetUnix(unix int64) {
	c.Set(time.Unix(unix, 0))
}
