package clock

import (
	"sync"
	"time"
)

// Clock supplies a monotonically non-decreasing time, measured from an
// arbitrary origin. The host loop samples it once per frame.
type Clock interface {
	Now() time.Duration
}

// Real measures elapsed time since it was created using the monotonic clock.
type Real struct {
	start time.Time
}

// NewReal returns a Real clock starting at zero.
func NewReal() *Real {
	return &Real{start: time.Now()}
}

// Now returns the time elapsed since NewReal.
func (c *Real) Now() time.Duration {
	return time.Since(c.start)
}

// Fake is deterministic and test-friendly.
type Fake struct {
	mu sync.Mutex
	t  time.Duration
}

// NewFake returns a Fake clock reading start.
func NewFake(start time.Duration) *Fake {
	return &Fake{t: start}
}

func (c *Fake) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t. Moving backwards is ignored so readers never see
// time decrease.
func (c *Fake) Set(t time.Duration) {
	c.mu.Lock()
	if t > c.t {
		c.t = t
	}
	c.mu.Unlock()
}

func (c *Fake) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	c.mu.Lock()
	c.t += d
	c.mu.Unlock()
}
