//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/calvinmclean/tankrc/rc"
)

// pin is a single output line
type pin interface {
	SetValue(int) error
	Close() error
}

func requestOutput(chip string, offset int) (*gpiocdev.Line, error) {
	return gpiocdev.RequestLine(chip, offset,
		gpiocdev.WithConsumer(consumer),
		gpiocdev.AsOutput(0))
}

// Headlight switches the headlight line
type Headlight struct {
	line pin
}

var _ rc.AuxOutput = Headlight{}

func NewHeadlight(cfg Config) (Headlight, error) {
	line, err := requestOutput(cfg.Chip, cfg.Headlight)
	if err != nil {
		return Headlight{}, fmt.Errorf("error requesting headlight line: %w", err)
	}
	return Headlight{line}, nil
}

// SetAux implements rc.AuxOutput.
func (h Headlight) SetAux(high bool) error {
	return h.line.SetValue(boolToValue(high))
}

func (h Headlight) Close() error {
	return h.line.Close()
}

// StatusLED blinks during calibration
type StatusLED struct {
	line pin
}

var _ rc.Indicator = StatusLED{}

func NewStatusLED(cfg Config) (StatusLED, error) {
	line, err := requestOutput(cfg.Chip, cfg.StatusLED)
	if err != nil {
		return StatusLED{}, fmt.Errorf("error requesting status LED line: %w", err)
	}
	return StatusLED{line}, nil
}

// Set implements rc.Indicator.
func (s StatusLED) Set(on bool) {
	err := s.line.SetValue(boolToValue(on))
	if err != nil {
		println("error setting status LED:", err.Error())
	}
}

func (s StatusLED) Close() error {
	return s.line.Close()
}

func boolToValue(b bool) int {
	if b {
		return 1
	}
	return 0
}
