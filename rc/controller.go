package rc

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/calvinmclean/tankrc"
)

// Controller runs the control loop. It starts in StateCalibrating and moves to StateRunning once the
// neutrals are known; there is no way back. It is not safe for concurrent use
type Controller struct {
	cfg        Config
	clock      Clock
	calibrator *Calibrator
	decoder    *Decoder
	motors     MotorOutput
	aux        AuxOutput
	indicator  Indicator

	state       tankrc.State
	signal      tankrc.Signal
	calibration Calibration
	values      ChannelValues
	last        Command

	// startTime is set when calibration completes and is used for log timestamps
	startTime time.Time

	verbose bool
}

// New creates a Controller with the provided collaborators. A nil Clock uses SystemClock
func New(src PulseSource, motors MotorOutput, aux AuxOutput, cfg Config, clock Clock) (*Controller, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	if src == nil || motors == nil || aux == nil {
		return nil, errors.New("pulse source, motor output and aux output are required")
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &Controller{
		cfg:        cfg,
		clock:      clock,
		calibrator: NewCalibrator(src, cfg, clock),
		decoder:    NewDecoder(src, cfg, clock),
		motors:     motors,
		aux:        aux,
		state:      tankrc.StateCalibrating,
		signal:     tankrc.SignalLost,
	}, nil
}

// SetIndicator sets the status light used during startup and calibration
func (c *Controller) SetIndicator(i Indicator) {
	c.indicator = i
	c.calibrator.indicator = i
}

// Start stops the motors, waits StartupDelay for the receiver to boot and then calibrates. It only
// returns nil once the Controller is running
func (c *Controller) Start(ctx context.Context) error {
	if c.state == tankrc.StateRunning {
		return errors.New("already running")
	}

	c.apply(Command{})

	c.setIndicator(true)
	c.clock.Sleep(c.cfg.StartupDelay)
	c.setIndicator(false)

	err := ctx.Err()
	if err != nil {
		return err
	}

	println(c.ts(), "Calibrating...")

	cal, err := c.calibrator.Calibrate(ctx)
	if err != nil {
		println(c.ts(), "error calibrating:", err.Error())
		return err
	}

	c.calibration = cal
	c.state = tankrc.StateRunning
	c.startTime = c.clock.Now()

	println(c.ts(), "Calibrated: throttle", cal.NeutralThrottle, "steering", cal.NeutralSteering)

	return nil
}

// Step runs one iteration: decode, mix and drive the outputs. Before calibration it only stops the motors
func (c *Controller) Step() Command {
	if c.state != tankrc.StateRunning {
		c.apply(Command{})
		return Command{}
	}

	c.values = c.decoder.Read()
	c.trackSignal()

	cmd := Mix(c.values, c.calibration, c.cfg.MaxCommand)
	c.apply(cmd)
	c.last = cmd

	return cmd
}

// Run starts the Controller and then steps until the context is done. The motors are stopped and the
// headlight turned off before returning
func (c *Controller) Run(ctx context.Context) error {
	defer c.apply(Command{})

	err := c.Start(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			println(c.ts(), "Stopped")
			return ctx.Err()
		default:
		}

		c.Step()

		if c.cfg.LoopInterval > 0 {
			c.clock.Sleep(c.cfg.LoopInterval)
		}
	}
}

// State returns the current loop state
func (c *Controller) State() tankrc.State {
	return c.state
}

// Signal returns the signal state from the latest Step
func (c *Controller) Signal() tankrc.Signal {
	return c.signal
}

// Calibration returns the neutrals. It is the zero value until the Controller is running
func (c *Controller) Calibration() Calibration {
	return c.calibration
}

// Last returns the decoded values and Command from the latest Step
func (c *Controller) Last() (ChannelValues, Command) {
	return c.values, c.last
}

// Verbose increases logging, including every rejected calibration sample
func (c *Controller) Verbose() {
	c.verbose = true
	c.calibrator.verbose = true
	println(c.ts(), "Set Verbose Mode")
}

// Debug prints out details of the Controller's state
func (c *Controller) Debug() {
	d := c.ts() + " state=" + c.state.String() + " signal=" + c.signal.String()
	d += " neutral=" + utoa(c.calibration.NeutralThrottle) + "/" + utoa(c.calibration.NeutralSteering)
	d += " in=" + utoa(c.values.Throttle) + "/" + utoa(c.values.Steering) + "/" + utoa(c.values.Aux)
	d += " out=" + strconv.Itoa(int(c.last.Left)) + "/" + strconv.Itoa(int(c.last.Right))
	d += " light=" + onOff(c.last.HighBeam)
	println(d)
}

func (c *Controller) trackSignal() {
	signal := tankrc.SignalOK
	if !c.values.Valid {
		signal = tankrc.SignalLost
	}
	if signal == c.signal {
		return
	}
	c.signal = signal

	if signal == tankrc.SignalLost {
		println(c.ts(), "Signal lost, stopping motors")
		return
	}
	println(c.ts(), "Signal OK")
}

func (c *Controller) apply(cmd Command) {
	err := c.motors.SetMotors(cmd.Left, cmd.Right)
	if err != nil {
		println(c.ts(), "error setting motors:", err.Error())
	}

	err = c.aux.SetAux(cmd.HighBeam)
	if err != nil {
		println(c.ts(), "error setting aux:", err.Error())
	}

	if c.verbose && cmd != c.last {
		println(c.ts(), "out", cmd.Left, cmd.Right, onOff(cmd.HighBeam))
	}
}

func (c *Controller) setIndicator(on bool) {
	if c.indicator != nil {
		c.indicator.Set(on)
	}
}

// ts returns the duration timestamp for logging
func (c *Controller) ts() string {
	if c.startTime.IsZero() {
		return "[-]"
	}
	return "[" + c.clock.Now().Sub(c.startTime).String() + "]"
}

func utoa(v uint16) string {
	return strconv.FormatUint(uint64(v), 10)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
