package rc

import (
	"math"
	"time"
)

// EdgeTracker converts pin transitions on one channel into a ChannelSample. It is not safe for
// concurrent use: callers guard it the same way they guard the rest of their capture state
type EdgeTracker struct {
	rise   time.Duration
	risen  bool
	sample ChannelSample
}

// Edge records a transition. stamp is a monotonic capture timestamp used to measure the pulse and
// at is the same moment on the Controller's Clock
func (t *EdgeTracker) Edge(high bool, stamp time.Duration, at time.Time) {
	t.sample.LastChange = at

	if high {
		t.rise = stamp
		t.risen = true
		return
	}

	if !t.risen || stamp < t.rise {
		return
	}
	t.risen = false

	width := (stamp - t.rise) / time.Microsecond
	if width > math.MaxUint16 {
		width = math.MaxUint16
	}
	t.sample.PulseWidth = uint16(width)
}

// Sample returns the latest completed pulse
func (t *EdgeTracker) Sample() ChannelSample {
	return t.sample
}
