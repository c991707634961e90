//go:build tinygo

package device

import (
	"errors"
	"machine"

	"github.com/calvinmclean/tankrc"
)

// Device is the robot's hardware: receiver capture, motor driver, headlight and status LED
type Device struct {
	Capture   *PulseCapture
	Motors    *Motors
	Headlight Headlight
	Status    StatusLED
}

// New initializes the hardware with the provided configs. The motors are stopped and the lights are off
func New(pins PinConfig, motorCfg MotorConfig) (Device, error) {
	motors, err := NewMotors(motorCfg)
	if err != nil {
		return Device{}, errors.New("error creating motors: " + err.Error())
	}

	headlight := NewHeadlight(pins.Headlight)
	status := NewStatusLED(pins.StatusLED)

	var inputs [tankrc.NumChannels]machine.Pin
	inputs[tankrc.ChannelThrottle] = pins.Throttle
	inputs[tankrc.ChannelSteering] = pins.Steering
	inputs[tankrc.ChannelAux] = pins.Aux

	capture, err := NewPulseCapture(inputs)
	if err != nil {
		return Device{}, errors.New("error creating pulse capture: " + err.Error())
	}

	return Device{
		Capture:   capture,
		Motors:    motors,
		Headlight: headlight,
		Status:    status,
	}, nil
}

// Buffered returns the number of bytes waiting on the serial console
func (d Device) Buffered() int {
	return machine.Serial.Buffered()
}

func (d Device) ReadByte() (byte, error) {
	return machine.Serial.ReadByte()
}
