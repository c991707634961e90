//go:build tinygo

package device

import (
	"errors"
	"machine"
	"runtime/interrupt"
	"time"

	"github.com/calvinmclean/tankrc"
	"github.com/calvinmclean/tankrc/rc"
)

// PulseCapture measures receiver pulses with pin change interrupts
type PulseCapture struct {
	pins     [tankrc.NumChannels]machine.Pin
	trackers [tankrc.NumChannels]rc.EdgeTracker
	epoch    time.Time
}

var _ rc.PulseSource = &PulseCapture{}

// NewPulseCapture configures the pins, indexed by tankrc.Channel, and starts listening for edges
func NewPulseCapture(pins [tankrc.NumChannels]machine.Pin) (*PulseCapture, error) {
	c := &PulseCapture{
		pins:  pins,
		epoch: time.Now(),
	}

	for _, p := range pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		err := p.SetInterrupt(machine.PinToggle, c.edge)
		if err != nil {
			return nil, errors.New("error setting pin interrupt: " + err.Error())
		}
	}

	return c, nil
}

// edge runs in interrupt context
func (c *PulseCapture) edge(p machine.Pin) {
	now := time.Now()
	for i := range c.pins {
		if c.pins[i] == p {
			c.trackers[i].Edge(p.Get(), now.Sub(c.epoch), now)
			return
		}
	}
}

// Sample implements rc.PulseSource. Interrupts are disabled while copying so the width and
// timestamp always come from the same edge
func (c *PulseCapture) Sample(ch tankrc.Channel) rc.ChannelSample {
	if ch < 0 || int(ch) >= tankrc.NumChannels {
		return rc.ChannelSample{}
	}

	state := interrupt.Disable()
	s := c.trackers[ch].Sample()
	interrupt.Restore(state)

	return s
}
