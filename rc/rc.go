// Package rc turns RC receiver pulses into tank-drive motor commands. It calibrates the neutral
// stick positions, decodes channels with a failsafe and mixes throttle and steering into
// saturated left and right commands. It has no hardware dependencies: pulses come from a
// PulseSource and commands go to a MotorOutput and an AuxOutput.
package rc

import (
	"time"

	"github.com/calvinmclean/tankrc"
)

// ChannelSample is the most recent completed high pulse on a channel
type ChannelSample struct {
	// PulseWidth is in microseconds
	PulseWidth uint16
	// LastChange is the time of the latest transition on the channel, on the same clock the Controller uses
	LastChange time.Time
}

// PulseSource provides the latest captured pulse per channel. Implementations that capture from an
// interrupt or another goroutine must never return a width and timestamp from two different edges
type PulseSource interface {
	Sample(tankrc.Channel) ChannelSample
}

// MotorOutput drives the left and right motors. Values are within the configured MaxCommand
type MotorOutput interface {
	SetMotors(left, right int16) error
}

// AuxOutput drives the headlight from the auxiliary channel
type AuxOutput interface {
	SetAux(high bool) error
}

// Indicator is an optional status light used while starting up and calibrating
type Indicator interface {
	Set(on bool)
}

// Clock is the time base shared by the Controller and its PulseSource
type Clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

// SystemClock uses the time package
type SystemClock struct{}

var _ Clock = SystemClock{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep implements Clock.
func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Calibration holds the neutral pulse widths that every mix is measured against
type Calibration struct {
	NeutralThrottle uint16
	NeutralSteering uint16
}

// ChannelValues are the decoded channels for one loop iteration. When Valid is false the signal
// was lost and every width is zero
type ChannelValues struct {
	Throttle uint16
	Steering uint16
	Aux      uint16
	Valid    bool
}

// Command is the mixer result for one loop iteration
type Command struct {
	Left     int16
	Right    int16
	HighBeam bool
}
