package core

import "time"

// Clock supplies monotonic timestamps in milliseconds.
type Clock interface {
	Now() float64
}

// SystemClock measures milliseconds since it was created, using the monotonic
// reading carried by time.Time.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock starting at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the elapsed milliseconds.
func (c *SystemClock) Now() float64 {
	return float64(time.Since(c.start)) / float64(time.Millisecond)
}

// ManualClock is advanced explicitly. Used by tests and replay.
type ManualClock struct {
	t float64
}

// Now returns the current manual time.
func (c *ManualClock) Now() float64 {
	return c.t
}

// Set moves the clock to t milliseconds.
func (c *ManualClock) Set(t float64) {
	c.t = t
}

// Advance moves the clock forward by ms milliseconds.
func (c *ManualClock) Advance(ms float64) {
	c.t += ms
}
