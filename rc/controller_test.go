package rc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calvinmclean/tankrc"
	"github.com/calvinmclean/tankrc/rc"
	"github.com/calvinmclean/tankrc/sim"
)

func newTestController(t *testing.T) (*rc.Controller, *sim.Transmitter, *sim.Outputs, *sim.FakeClock) {
	t.Helper()

	clock := sim.NewFakeClock(epoch)
	tx := sim.NewTransmitter(clock)
	out := sim.NewOutputs()

	c, err := rc.New(tx, out, out, rc.DefaultConfig(), clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.SetIndicator(out)

	return c, tx, out, clock
}

func TestNew(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	tx := sim.NewTransmitter(clock)
	out := sim.NewOutputs()

	t.Run("InvalidConfig", func(t *testing.T) {
		cfg := rc.DefaultConfig()
		cfg.MaxCommand = 0
		_, err := rc.New(tx, out, out, cfg, clock)
		if !errors.Is(err, rc.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("MissingCollaborator", func(t *testing.T) {
		_, err := rc.New(nil, out, out, rc.DefaultConfig(), clock)
		if err == nil {
			t.Error("expected error for missing pulse source")
		}
	})

	t.Run("DefaultClock", func(t *testing.T) {
		_, err := rc.New(tx, out, out, rc.DefaultConfig(), nil)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestControllerStepBeforeStart(t *testing.T) {
	c, tx, out, _ := newTestController(t)
	tx.SetPulse(tankrc.ChannelThrottle, 2000)

	cmd := c.Step()
	if cmd != (rc.Command{}) {
		t.Errorf("expected stop before calibration, got %+v", cmd)
	}
	if c.State() != tankrc.StateCalibrating {
		t.Errorf("expected %s, got %s", tankrc.StateCalibrating, c.State())
	}
	left, right := out.Motors()
	if left != 0 || right != 0 || out.Calls() != 1 {
		t.Errorf("expected one stop command, got left=%d right=%d calls=%d", left, right, out.Calls())
	}
}

func TestControllerStart(t *testing.T) {
	c, tx, out, clock := newTestController(t)
	tx.SetPulse(tankrc.ChannelThrottle, 1490)
	tx.SetPulse(tankrc.ChannelSteering, 1515)

	err := c.Start(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.State() != tankrc.StateRunning {
		t.Errorf("expected %s, got %s", tankrc.StateRunning, c.State())
	}
	expected := rc.Calibration{NeutralThrottle: 1490, NeutralSteering: 1515}
	if c.Calibration() != expected {
		t.Errorf("expected=%+v, got=%+v", expected, c.Calibration())
	}
	if elapsed := clock.Now().Sub(epoch); elapsed != 500*time.Millisecond {
		t.Errorf("expected startup delay of 500ms, got %s", elapsed)
	}
	if out.Indicator() {
		t.Error("expected indicator off after calibration")
	}
	if out.Calls() != 1 {
		t.Errorf("expected motors stopped once on start, got %d calls", out.Calls())
	}

	err = c.Start(context.Background())
	if err == nil {
		t.Error("expected error starting twice")
	}
}

func TestControllerStartCancelled(t *testing.T) {
	c, tx, _, _ := newTestController(t)
	tx.SetPulse(tankrc.ChannelThrottle, 1900)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Start(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if c.State() != tankrc.StateCalibrating {
		t.Errorf("expected %s, got %s", tankrc.StateCalibrating, c.State())
	}
}

// cancelOnSleep cancels the context the first time the controller sleeps
type cancelOnSleep struct {
	*sim.FakeClock
	cancel context.CancelFunc
}

func (c cancelOnSleep) Sleep(d time.Duration) {
	c.FakeClock.Sleep(d)
	c.cancel()
}

func TestControllerStartCancelledDuringStartupDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := cancelOnSleep{sim.NewFakeClock(epoch), cancel}
	src := newScriptedSource(clock, map[tankrc.Channel][]pulse{
		tankrc.ChannelThrottle: live(1500),
		tankrc.ChannelSteering: live(1500),
	})
	out := sim.NewOutputs()

	c, err := rc.New(src, out, out, rc.DefaultConfig(), clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.SetIndicator(out)

	err = c.Start(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if c.State() != tankrc.StateCalibrating {
		t.Errorf("expected %s, got %s", tankrc.StateCalibrating, c.State())
	}
	if len(src.polls) != 0 {
		t.Errorf("expected no samples after cancel, got %v", src.polls)
	}
	if out.Indicator() {
		t.Error("expected indicator off")
	}
}

func TestControllerStep(t *testing.T) {
	c, tx, out, clock := newTestController(t)

	err := c.Start(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := []struct {
		name     string
		setup    func()
		expected rc.Command
		signal   tankrc.Signal
	}{
		{
			"Forward",
			func() { tx.SetPulse(tankrc.ChannelThrottle, 1700) },
			rc.Command{Left: 200, Right: -200},
			tankrc.SignalOK,
		},
		{
			"ForwardLeftWithLight",
			func() {
				tx.SetPulse(tankrc.ChannelSteering, 1000)
				tx.SetPulse(tankrc.ChannelThrottle, 2000)
				tx.SetAux(true)
			},
			rc.Command{Left: 255, Right: 0, HighBeam: true},
			tankrc.SignalOK,
		},
		{
			"SignalLost",
			func() {
				tx.Disconnect()
				clock.Advance(250 * time.Millisecond)
			},
			rc.Command{},
			tankrc.SignalLost,
		},
		{
			"StillLost",
			func() { clock.Advance(time.Second) },
			rc.Command{},
			tankrc.SignalLost,
		},
		{
			"Recovered",
			func() {
				tx.Connect()
				tx.SetPulse(tankrc.ChannelSteering, 1500)
				tx.SetPulse(tankrc.ChannelThrottle, 1300)
				tx.SetAux(false)
			},
			rc.Command{Left: -200, Right: 200},
			tankrc.SignalOK,
		},
	}

	for _, tt := range steps {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			cmd := c.Step()
			if cmd != tt.expected {
				t.Errorf("expected=%+v, got=%+v", tt.expected, cmd)
			}
			if c.Signal() != tt.signal {
				t.Errorf("expected signal %s, got %s", tt.signal, c.Signal())
			}

			left, right := out.Motors()
			if left != tt.expected.Left || right != tt.expected.Right || out.HighBeam() != tt.expected.HighBeam {
				t.Errorf("outputs do not match command: left=%d right=%d light=%t", left, right, out.HighBeam())
			}

			_, last := c.Last()
			if last != cmd {
				t.Errorf("expected Last to return %+v, got %+v", cmd, last)
			}
		})
	}
}

func TestControllerStepOutputErrors(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	tx := sim.NewTransmitter(clock)
	failing := failingOutput{errors.New("driver fault")}

	c, err := rc.New(tx, failing, failing, rc.DefaultConfig(), clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = c.Start(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tx.SetPulse(tankrc.ChannelThrottle, 1600)
	for range 3 {
		cmd := c.Step()
		if cmd.Left != 100 {
			t.Errorf("expected the loop to keep mixing, got %+v", cmd)
		}
	}
}

// cancelAfter cancels the context after n motor updates
type cancelAfter struct {
	*sim.Outputs
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) SetMotors(left, right int16) error {
	err := c.Outputs.SetMotors(left, right)
	if c.Outputs.Calls() >= c.n {
		c.cancel()
	}
	return err
}

func TestControllerRun(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	tx := sim.NewTransmitter(clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &cancelAfter{Outputs: sim.NewOutputs(), n: 10, cancel: cancel}

	cfg := rc.DefaultConfig()
	cfg.LoopInterval = 5 * time.Millisecond

	c, err := rc.New(tx, out, out, cfg, clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tx.SetPulse(tankrc.ChannelThrottle, 1500)
	tx.SetAux(true)

	err = c.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	// one stop on start, nine steps, one stop on exit
	if out.Calls() != 11 {
		t.Errorf("expected 11 motor updates, got %d", out.Calls())
	}
	left, right := out.Motors()
	if left != 0 || right != 0 || out.HighBeam() {
		t.Errorf("expected everything off after Run, got left=%d right=%d light=%t", left, right, out.HighBeam())
	}
}

func TestControllerRunCalibrationFails(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	tx := sim.NewTransmitter(clock)
	tx.SetPulse(tankrc.ChannelThrottle, 1000)
	out := sim.NewOutputs()

	cfg := rc.DefaultConfig()
	cfg.CalibrationAttempts = 5

	c, err := rc.New(tx, out, out, cfg, clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = c.Run(context.Background())
	if !errors.Is(err, rc.ErrNotCalibrated) {
		t.Errorf("expected ErrNotCalibrated, got %v", err)
	}
	if c.State() != tankrc.StateCalibrating {
		t.Errorf("expected %s, got %s", tankrc.StateCalibrating, c.State())
	}
}
