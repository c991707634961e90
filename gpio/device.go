//go:build linux

package gpio

import (
	"errors"

	"github.com/calvinmclean/tankrc/rc"
)

// Device has every line the robot uses
type Device struct {
	Capture   *PulseCapture
	Motors    *Motors
	Headlight Headlight
	Status    StatusLED
}

// New requests all lines. Lines that were already requested are released if a later one fails
func New(cfg Config, clock rc.Clock) (*Device, error) {
	d := &Device{}

	var err error
	d.Capture, err = NewPulseCapture(cfg, clock)
	if err != nil {
		return nil, err
	}

	d.Motors, err = NewMotors(cfg)
	if err != nil {
		return nil, errors.Join(err, d.Close())
	}

	d.Headlight, err = NewHeadlight(cfg)
	if err != nil {
		return nil, errors.Join(err, d.Close())
	}

	d.Status, err = NewStatusLED(cfg)
	if err != nil {
		return nil, errors.Join(err, d.Close())
	}

	return d, nil
}

// Close stops the motors and releases all requested lines
func (d *Device) Close() error {
	var errs []error
	if d.Motors != nil {
		errs = append(errs, d.Motors.Close())
	}
	if d.Headlight.line != nil {
		errs = append(errs, d.Headlight.SetAux(false), d.Headlight.Close())
	}
	if d.Status.line != nil {
		d.Status.Set(false)
		errs = append(errs, d.Status.Close())
	}
	if d.Capture != nil {
		errs = append(errs, d.Capture.Close())
	}
	return errors.Join(errs...)
}
