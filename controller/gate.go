package controller

import "time"

// Clock is the firmware's monotonic millisecond tick source
type Clock interface {
	Millis() uint32
}

// SystemClock counts milliseconds since it was created
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// Gate admits periodic work into a cooperative loop without blocking. Each firing
// rebases on the time it fired, so a stalled loop gets one catch-up firing rather than
// a backlog.
type Gate struct {
	period uint32
	last   uint32
}

func NewGate(period time.Duration) *Gate {
	return &Gate{period: uint32(period.Milliseconds())}
}

// Reset starts a new period at now
func (g *Gate) Reset(now uint32) {
	g.last = now
}

// HasElapsed returns true at most once per period. Millisecond counter wraparound is
// handled by unsigned subtraction.
func (g *Gate) HasElapsed(now uint32) bool {
	if now-g.last < g.period {
		return false
	}
	g.last = now
	return true
}
