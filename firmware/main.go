//go:build tinygo

package main

import (
	"context"
	"machine"
	"time"

	"github.com/calvinmclean/tankrc/firmware/commands"
	"github.com/calvinmclean/tankrc/firmware/device"
	"github.com/calvinmclean/tankrc/rc"
)

// console connects the serial commands to the running controller
type console struct {
	*rc.Controller
	device.Device
}

func main() {
	cfg := rc.DefaultConfig()

	pins := device.PinConfig{
		Throttle:  machine.GP2,
		Steering:  machine.GP3,
		Aux:       machine.GP4,
		Headlight: machine.GP15,
		StatusLED: machine.LED,
	}

	motorCfg := device.MotorConfig{
		Left: device.MotorPins{
			PWM: machine.PWM5,
			A:   machine.GP10,
			B:   machine.GP11,
		},
		Right: device.MotorPins{
			PWM: machine.PWM6,
			A:   machine.GP12,
			B:   machine.GP13,
		},
		// 20kHz keeps the motors out of the audible range
		Period:     uint64(time.Second / 20000),
		MaxCommand: cfg.MaxCommand,
	}

	d, err := device.New(pins, motorCfg)
	if err != nil {
		panic(err)
	}

	c, err := rc.New(d.Capture, d.Motors, d.Headlight, cfg, rc.SystemClock{})
	if err != nil {
		panic(err)
	}
	c.SetIndicator(d.Status)

	// blocks until the sticks are centered and the receiver is live
	err = c.Start(context.Background())
	if err != nil {
		panic(err)
	}

	con := console{c, d}
	for {
		c.Step()
		commands.Poll(con)
	}
}
