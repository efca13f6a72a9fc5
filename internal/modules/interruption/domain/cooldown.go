package domain

import "time"

// Cooldown rate-limits emissions: after an allowed event, further events are
// rejected until strictly more than the window has elapsed.
type Cooldown struct {
	window time.Duration
	last   time.Time
	primed bool
}

func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{window: window}
}

func (c *Cooldown) Allow(now time.Time) bool {
	if c.primed && now.Sub(c.last) <= c.window {
		return false
	}
	c.last = now
	c.primed = true
	return true
}

func (c *Cooldown) Reset() {
	c.last = time.Time{}
	c.primed = false
}
