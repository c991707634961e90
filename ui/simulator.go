package ui

import (
	"context"
	"sync"
	"time"

	"github.com/calvinmclean/tankrc"
	"github.com/calvinmclean/tankrc/rc"
	"github.com/calvinmclean/tankrc/sim"
)

// defaultLoopInterval keeps the simulated control loop from spinning a whole core
const defaultLoopInterval = 10 * time.Millisecond

type status struct {
	State       tankrc.State
	Signal      tankrc.Signal
	Calibration rc.Calibration
	Values      rc.ChannelValues
	Command     rc.Command
	StartTime   time.Time
}

// simulator runs a Controller against a simulated transmitter and records its status after every
// iteration so the UI can read it from another goroutine
type simulator struct {
	transmitter *sim.Transmitter
	outputs     *sim.Outputs
	controller  *rc.Controller
	clock       rc.Clock
	interval    time.Duration

	mtx    *sync.Mutex
	status status
}

func newSimulator(cfg rc.Config, clock rc.Clock) (*simulator, error) {
	interval := cfg.LoopInterval
	if interval == 0 {
		interval = defaultLoopInterval
	}

	transmitter := sim.NewTransmitter(clock)
	outputs := sim.NewOutputs()

	c, err := rc.New(transmitter, outputs, outputs, cfg, clock)
	if err != nil {
		return nil, err
	}
	c.SetIndicator(outputs)

	return &simulator{
		transmitter: transmitter,
		outputs:     outputs,
		controller:  c,
		clock:       clock,
		interval:    interval,
		mtx:         &sync.Mutex{},
		status: status{
			State:  c.State(),
			Signal: c.Signal(),
		},
	}, nil
}

// run calibrates and then steps the controller until the context is cancelled
func (s *simulator) run(ctx context.Context) error {
	defer func() {
		_ = s.outputs.SetMotors(0, 0)
		_ = s.outputs.SetAux(false)
	}()

	err := s.controller.Start(ctx)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	s.status.StartTime = s.clock.Now()
	s.mtx.Unlock()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		s.controller.Step()
		s.record()
		s.clock.Sleep(s.interval)
	}
}

func (s *simulator) record() {
	values, cmd := s.controller.Last()

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.status.State = s.controller.State()
	s.status.Signal = s.controller.Signal()
	s.status.Calibration = s.controller.Calibration()
	s.status.Values = values
	s.status.Command = cmd
}

func (s *simulator) Status() status {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.status
}
