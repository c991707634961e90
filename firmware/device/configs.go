//go:build tinygo

package device

import (
	"machine"

	"tinygo.org/x/drivers/l9110x"
)

// PWM is a PWM peripheral driving both inputs of one H-bridge channel
type PWM interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
	SetPeriod(period uint64) error
}

var _ l9110x.PWM = PWM(nil)

// PinConfig has the receiver inputs and the light outputs
type PinConfig struct {
	Throttle  machine.Pin
	Steering  machine.Pin
	Aux       machine.Pin
	Headlight machine.Pin
	StatusLED machine.Pin
}

// MotorPins are the two inputs of an L9110-style H-bridge channel. Both pins must belong to PWM
type MotorPins struct {
	PWM PWM
	A   machine.Pin
	B   machine.Pin
}

// MotorConfig has the H-bridge wiring for both motors
type MotorConfig struct {
	Left  MotorPins
	Right MotorPins
	// Period is the PWM period in nanoseconds
	Period uint64
	// MaxCommand is the command that maps to full speed
	MaxCommand int16
}
