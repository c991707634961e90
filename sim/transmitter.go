// Package sim has software stand-ins for the robot's hardware: a transmitter and receiver pair that
// produce pulses, a controllable clock and outputs that record what the control loop commanded.
package sim

import (
	"sync"
	"time"

	"github.com/calvinmclean/tankrc"
	"github.com/calvinmclean/tankrc/rc"
)

const (
	// MinPulse is full reverse or full left
	MinPulse uint16 = 1000
	// CenterPulse is a centered stick
	CenterPulse uint16 = 1500
	// MaxPulse is full forward or full right
	MaxPulse uint16 = 2000
)

// Transmitter simulates a receiver connected to a transmitter. While connected every sample is live.
// After Disconnect the receiver stops pulsing and samples keep the time of their last edge
type Transmitter struct {
	mtx        *sync.Mutex
	clock      rc.Clock
	pulses     [tankrc.NumChannels]uint16
	lastChange [tankrc.NumChannels]time.Time
	connected  bool
}

var _ rc.PulseSource = &Transmitter{}

// NewTransmitter creates a connected Transmitter with centered sticks and the aux switch low
func NewTransmitter(clock rc.Clock) *Transmitter {
	t := &Transmitter{
		mtx:       &sync.Mutex{},
		clock:     clock,
		connected: true,
	}
	t.Center()
	return t
}

// Sample implements rc.PulseSource.
func (t *Transmitter) Sample(ch tankrc.Channel) rc.ChannelSample {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if ch < 0 || int(ch) >= tankrc.NumChannels {
		return rc.ChannelSample{}
	}

	if t.connected {
		t.lastChange[ch] = t.clock.Now()
	}

	return rc.ChannelSample{
		PulseWidth: t.pulses[ch],
		LastChange: t.lastChange[ch],
	}
}

// SetPulse sets the pulse width in microseconds for a channel
func (t *Transmitter) SetPulse(ch tankrc.Channel, width uint16) {
	if ch < 0 || int(ch) >= tankrc.NumChannels {
		return
	}

	t.mtx.Lock()
	t.pulses[ch] = width
	t.mtx.Unlock()
}

// SetAux flips the auxiliary switch
func (t *Transmitter) SetAux(high bool) {
	width := MinPulse
	if high {
		width = MaxPulse
	}
	t.SetPulse(tankrc.ChannelAux, width)
}

// Center centers throttle and steering and turns the aux switch off
func (t *Transmitter) Center() {
	t.mtx.Lock()
	t.pulses = [tankrc.NumChannels]uint16{CenterPulse, CenterPulse, MinPulse}
	t.mtx.Unlock()
}

// Disconnect stops the receiver from producing pulses, as if the transmitter was turned off
func (t *Transmitter) Disconnect() {
	t.mtx.Lock()
	t.connected = false
	t.mtx.Unlock()
}

// Connect resumes pulses
func (t *Transmitter) Connect() {
	t.mtx.Lock()
	t.connected = true
	t.mtx.Unlock()
}

// Connected tells if the receiver is producing pulses
func (t *Transmitter) Connected() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.connected
}
