package sim

import "time"

// SimulationClock turns wall-clock ticks into frame durations.
type SimulationClock struct {
	last    time.Time
	started bool
}

// Tick returns the milliseconds elapsed since the previous tick; the first
// tick returns 0. Time running backwards yields 0.
func (c *SimulationClock) Tick(now time.Time) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	elapsed := now.Sub(c.last)
	c.last = now
	if elapsed < 0 {
		return 0
	}
	return float64(elapsed) / float64(time.Millisecond)
}

// Reset makes the next tick behave like the first one, so a pause does
// not turn into one long frame.
func (c *SimulationClock) Reset() {
	c.started = false
}
