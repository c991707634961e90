//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/calvinmclean/tankrc/rc"
)

// pinPair is the output side of a motor's A and B inputs
type pinPair interface {
	SetValues([]int) error
	Close() error
}

// softMotor drives one H-bridge channel with a software PWM loop
type softMotor struct {
	lines  pinPair
	period time.Duration
	limit  int16

	mtx     *sync.Mutex
	pattern [2]int
	high    time.Duration
	low     time.Duration
	err     error

	stop chan struct{}
	done chan struct{}
}

func newSoftMotor(lines pinPair, period time.Duration, limit int16) *softMotor {
	return &softMotor{
		lines:  lines,
		period: period,
		limit:  limit,
		mtx:    &sync.Mutex{},
		low:    period,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (m *softMotor) set(v int16) {
	pattern, high, low := duty(v, m.limit, m.period)

	m.mtx.Lock()
	m.pattern, m.high, m.low = pattern, high, low
	m.mtx.Unlock()
}

func (m *softMotor) run() {
	defer close(m.done)

	for {
		select {
		case <-m.stop:
			m.write([]int{0, 0})
			return
		default:
		}

		m.mtx.Lock()
		pattern, high, low := m.pattern, m.high, m.low
		m.mtx.Unlock()

		if high > 0 {
			m.write(pattern[:])
			time.Sleep(high)
		}
		if low > 0 {
			m.write([]int{0, 0})
			time.Sleep(low)
		}
	}
}

// write sets the lines. Failures are logged once until a write succeeds again
func (m *softMotor) write(values []int) {
	err := m.lines.SetValues(values)

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if err != nil && m.err == nil {
		println("error setting motor lines:", err.Error())
	}
	m.err = err
}

// lastErr returns the error from the latest write
func (m *softMotor) lastErr() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.err
}

func (m *softMotor) close() error {
	close(m.stop)
	<-m.done
	return m.lines.Close()
}

// Motors drives both tracks
type Motors struct {
	left  *softMotor
	right *softMotor
}

var _ rc.MotorOutput = &Motors{}

// NewMotors requests the motor driver lines and starts both PWM loops with the motors stopped
func NewMotors(cfg Config) (*Motors, error) {
	left, err := gpiocdev.RequestLines(cfg.Chip, []int{cfg.LeftA, cfg.LeftB},
		gpiocdev.WithConsumer(consumer),
		gpiocdev.AsOutput(0, 0))
	if err != nil {
		return nil, fmt.Errorf("error requesting left motor lines: %w", err)
	}

	right, err := gpiocdev.RequestLines(cfg.Chip, []int{cfg.RightA, cfg.RightB},
		gpiocdev.WithConsumer(consumer),
		gpiocdev.AsOutput(0, 0))
	if err != nil {
		left.Close()
		return nil, fmt.Errorf("error requesting right motor lines: %w", err)
	}

	return newMotors(left, right, cfg.PWMPeriod, cfg.MaxCommand), nil
}

func newMotors(left, right pinPair, period time.Duration, limit int16) *Motors {
	m := &Motors{
		left:  newSoftMotor(left, period, limit),
		right: newSoftMotor(right, period, limit),
	}
	go m.left.run()
	go m.right.run()
	return m
}

// SetMotors implements rc.MotorOutput.
func (m *Motors) SetMotors(left, right int16) error {
	m.left.set(left)
	m.right.set(right)
	return nil
}

// Close stops both PWM loops with the outputs low and releases the lines
func (m *Motors) Close() error {
	return errors.Join(m.left.close(), m.right.close())
}
