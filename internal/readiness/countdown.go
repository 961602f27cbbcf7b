package readiness

import "time"

// Countdown tracks whole seconds until the next network sample. The value
// stays within [0, interval].
type Countdown struct {
	interval  int
	remaining int
}

// NewCountdown starts a countdown at the full interval.
func NewCountdown(interval time.Duration) *Countdown {
	secs := int(interval / time.Second)
	if secs < 0 {
		secs = 0
	}
	return &Countdown{interval: secs, remaining: secs}
}

// Tick decrements by one second, stopping at zero.
func (c *Countdown) Tick() int {
	if c.remaining > 0 {
		c.remaining--
	}
	return c.remaining
}

// Reset returns the countdown to the full interval.
func (c *Countdown) Reset() int {
	c.remaining = c.interval
	return c.remaining
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int { return c.remaining }

// Interval returns the full interval in seconds.
func (c *Countdown) Interval() int { return c.interval }
