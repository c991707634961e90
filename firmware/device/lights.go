//go:build tinygo

package device

import (
	"machine"

	"github.com/calvinmclean/tankrc/rc"
)

// Headlight is switched by the aux channel
type Headlight struct {
	pin machine.Pin
}

var _ rc.AuxOutput = Headlight{}

// NewHeadlight configures the pin as an output and turns the light off
func NewHeadlight(pin machine.Pin) Headlight {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return Headlight{pin}
}

// SetAux implements rc.AuxOutput.
func (h Headlight) SetAux(high bool) error {
	h.pin.Set(high)
	return nil
}

// StatusLED shows when the robot is starting up or calibrating
type StatusLED struct {
	pin machine.Pin
}

var _ rc.Indicator = StatusLED{}

// NewStatusLED configures the pin as an output and turns the LED off
func NewStatusLED(pin machine.Pin) StatusLED {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return StatusLED{pin}
}

// Set implements rc.Indicator.
func (s StatusLED) Set(on bool) {
	s.pin.Set(on)
}
