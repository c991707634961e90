package sim

import (
	"sync"
	"time"

	"github.com/calvinmclean/tankrc/rc"
)

// FakeClock is an rc.Clock that only moves when Sleep or Advance is called
type FakeClock struct {
	mtx *sync.Mutex
	now time.Time
}

var _ rc.Clock = &FakeClock{}

// NewFakeClock creates a FakeClock starting at start
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{
		mtx: &sync.Mutex{},
		now: start,
	}
}

// Now implements rc.Clock.
func (c *FakeClock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.now
}

// Sleep implements rc.Clock by advancing the clock
func (c *FakeClock) Sleep(d time.Duration) {
	c.Advance(d)
}

// Advance moves the clock forward
func (c *FakeClock) Advance(d time.Duration) {
	c.mtx.Lock()
	c.now = c.now.Add(d)
	c.mtx.Unlock()
}
