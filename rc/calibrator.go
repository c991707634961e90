package rc

import (
	"context"
	"errors"

	"github.com/calvinmclean/tankrc"
)

// ErrNotCalibrated is returned when CalibrationAttempts runs out before a neutral pulse is seen
var ErrNotCalibrated = errors.New("no neutral pulse within the acceptance band")

type calibrationError struct {
	ch tankrc.Channel
}

func (e calibrationError) Error() string {
	return "error calibrating " + e.ch.String() + ": " + ErrNotCalibrated.Error()
}

func (e calibrationError) Unwrap() error {
	return ErrNotCalibrated
}

// Calibrator finds the neutral pulse widths for throttle and steering. The transmitter sticks must be centered
type Calibrator struct {
	src       PulseSource
	cfg       Config
	clock     Clock
	indicator Indicator
	verbose   bool
}

// NewCalibrator creates a Calibrator. The Config is expected to be valid
func NewCalibrator(src PulseSource, cfg Config, clock Clock) *Calibrator {
	return &Calibrator{
		src:   src,
		cfg:   cfg,
		clock: clock,
	}
}

// Calibrate blocks until a live, in-band pulse is seen on throttle and then on steering. With the default
// CalibrationAttempts of zero it never gives up, so the robot cannot start without a verified neutral
func (c *Calibrator) Calibrate(ctx context.Context) (Calibration, error) {
	throttle, err := c.neutral(ctx, tankrc.ChannelThrottle)
	if err != nil {
		return Calibration{}, err
	}

	steering, err := c.neutral(ctx, tankrc.ChannelSteering)
	if err != nil {
		return Calibration{}, err
	}

	return Calibration{
		NeutralThrottle: throttle,
		NeutralSteering: steering,
	}, nil
}

func (c *Calibrator) neutral(ctx context.Context, ch tankrc.Channel) (uint16, error) {
	lit := false
	defer c.setIndicator(false)

	for attempt := 1; ; attempt++ {
		err := ctx.Err()
		if err != nil {
			return 0, err
		}

		sample := c.src.Sample(ch)
		if c.accept(sample) {
			return sample.PulseWidth, nil
		}

		if c.verbose {
			println("calibrating", ch.String(), "rejected", sample.PulseWidth, "us, attempt", attempt)
		}

		if c.cfg.CalibrationAttempts > 0 && attempt >= c.cfg.CalibrationAttempts {
			return 0, calibrationError{ch}
		}

		lit = !lit
		c.setIndicator(lit)
		c.clock.Sleep(c.cfg.CalibrationInterval)
	}
}

// accept is true for a pulse inside the neutral band whose channel changed recently
func (c *Calibrator) accept(s ChannelSample) bool {
	if s.PulseWidth < c.cfg.NeutralMin || s.PulseWidth > c.cfg.NeutralMax {
		return false
	}
	return c.clock.Now().Sub(s.LastChange) <= c.cfg.CalibrationStaleness
}

func (c *Calibrator) setIndicator(on bool) {
	if c.indicator != nil {
		c.indicator.Set(on)
	}
}
