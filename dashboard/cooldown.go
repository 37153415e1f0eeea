package dashboard

import (
	"fmt"
	"math"
	"time"
)

// Cooldown gates manual refresh for a fixed period after it starts.
type Cooldown struct {
	period time.Duration
	until  time.Time
	now    func() time.Time
}

// NewCooldown creates an idle Cooldown of the given period.
func NewCooldown(period time.Duration, now func() time.Time) *Cooldown {
	if now == nil {
		now = time.Now
	}
	return &Cooldown{period: period, now: now}
}

// Start begins a new cooldown period from now.
func (c *Cooldown) Start() {
	c.until = c.now().Add(c.period)
}

// Remaining is the whole number of seconds left, rounded up; 0 when idle.
func (c *Cooldown) Remaining() int {
	left := c.until.Sub(c.now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// Active reports whether refresh is still gated.
func (c *Cooldown) Active() bool {
	return c.Remaining() > 0
}

// FormatCountdown renders seconds as M:SS.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
