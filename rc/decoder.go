package rc

import (
	"time"

	"github.com/calvinmclean/tankrc"
)

// Decoder reads the three channels once per loop iteration
type Decoder struct {
	src   PulseSource
	cfg   Config
	clock Clock
}

// NewDecoder creates a Decoder. The Config is expected to be valid
func NewDecoder(src PulseSource, cfg Config, clock Clock) *Decoder {
	return &Decoder{
		src:   src,
		cfg:   cfg,
		clock: clock,
	}
}

// Read samples the channels without blocking. If throttle, or steering when FailsafeSteering is set,
// has not changed within FailsafeTimeout the signal is lost and the zero ChannelValues is returned
// without reading aux. Live widths are passed through unclamped.
func (d *Decoder) Read() ChannelValues {
	now := d.clock.Now()

	throttle := d.src.Sample(tankrc.ChannelThrottle)
	if d.stale(throttle, now) {
		return ChannelValues{}
	}

	steering := d.src.Sample(tankrc.ChannelSteering)
	if d.cfg.FailsafeSteering && d.stale(steering, now) {
		return ChannelValues{}
	}

	aux := d.src.Sample(tankrc.ChannelAux)

	return ChannelValues{
		Throttle: throttle.PulseWidth,
		Steering: steering.PulseWidth,
		Aux:      aux.PulseWidth,
		Valid:    true,
	}
}

func (d *Decoder) stale(s ChannelSample, now time.Time) bool {
	return now.Sub(s.LastChange) > d.cfg.FailsafeTimeout
}
