//go:build tinygo

package device

import (
	"errors"
	"machine"

	"github.com/calvinmclean/tankrc/rc"

	"tinygo.org/x/drivers/l9110x"
)

// Motors drives two DC motors through L9110 H-bridge channels
type Motors struct {
	left       l9110x.PWMDevice
	right      l9110x.PWMDevice
	maxCommand int16
}

var _ rc.MotorOutput = &Motors{}

// NewMotors configures the PWM peripherals and leaves both motors stopped
func NewMotors(cfg MotorConfig) (*Motors, error) {
	if cfg.MaxCommand <= 0 {
		return nil, errors.New("max command must be positive")
	}

	left, err := newMotor(cfg.Left, cfg.Period)
	if err != nil {
		return nil, errors.New("error creating left motor: " + err.Error())
	}

	right, err := newMotor(cfg.Right, cfg.Period)
	if err != nil {
		return nil, errors.New("error creating right motor: " + err.Error())
	}

	return &Motors{
		left:       left,
		right:      right,
		maxCommand: cfg.MaxCommand,
	}, nil
}

func newMotor(pins MotorPins, period uint64) (l9110x.PWMDevice, error) {
	err := pins.PWM.Configure(machine.PWMConfig{Period: period})
	if err != nil {
		return l9110x.PWMDevice{}, errors.New("error configuring PWM: " + err.Error())
	}

	ca, err := pins.PWM.Channel(pins.A)
	if err != nil {
		return l9110x.PWMDevice{}, errors.New("error getting PWM channel A: " + err.Error())
	}

	cb, err := pins.PWM.Channel(pins.B)
	if err != nil {
		return l9110x.PWMDevice{}, errors.New("error getting PWM channel B: " + err.Error())
	}

	motor := l9110x.NewWithSpeed(ca, cb, pins.PWM)
	err = motor.Configure()
	if err != nil {
		return l9110x.PWMDevice{}, errors.New("error configuring motor: " + err.Error())
	}

	return motor, nil
}

// SetMotors implements rc.MotorOutput. Positive commands drive forward
func (m *Motors) SetMotors(left, right int16) error {
	drive(&m.left, left, m.maxCommand)
	drive(&m.right, right, m.maxCommand)
	return nil
}

func drive(motor *l9110x.PWMDevice, v, limit int16) {
	// l9110x speeds are a percentage
	speed := rc.Speed(v, limit, 100)

	switch {
	case speed == 0:
		motor.Stop()
	case v > 0:
		motor.Forward(speed)
	default:
		motor.Backward(speed)
	}
}
