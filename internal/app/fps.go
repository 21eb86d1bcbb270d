package app

import "time"

// FPSCounter reports the instantaneous frame rate from the interval between
// consecutive frames.
type FPSCounter struct {
	prev  time.Time
	value int
}

// Tick records a frame at now and returns the whole frames per second implied
// by the gap since the previous frame. The first frame and a non-positive gap
// report 0.
func (c *FPSCounter) Tick(now time.Time) int {
	if c.prev.IsZero() {
		c.value = 0
	} else if d := now.Sub(c.prev); d > 0 {
		c.value = int(time.Second / d)
	} else {
		c.value = 0
	}
	c.prev = now
	return c.value
}

// Value returns the last computed rate.
func (c *FPSCounter) Value() int {
	return c.value
}
