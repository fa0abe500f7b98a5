package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually driven time source. Readings are UTC and truncated to
// whole seconds, the precision events are stored with.
type Clock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewClock starts at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: normalize(start)}
}

// NewTickingClock moves forward by step after every reading, so consecutive
// writes get distinct timestamps.
func NewTickingClock(start time.Time, step time.Duration) *Clock {
	c := NewClock(start)
	c.step = step
	return c
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.current
	c.current = normalize(c.current.Add(c.step))
	return now
}

// NowFunc adapts the clock for constructors taking func() time.Time. A nil
// clock yields time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = normalize(t)
	c.mu.Unlock()
}

func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = normalize(c.current.Add(d))
	return c.current
}

// Current reads the clock without ticking it.
func (c *Clock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
