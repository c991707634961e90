package rc_test

import (
	"time"

	"github.com/calvinmclean/tankrc"
	"github.com/calvinmclean/tankrc/rc"
)

var epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// pulse is a scripted sample: a width and how long ago its channel last changed
type pulse struct {
	width uint16
	age   time.Duration
}

// scriptedSource plays back pulses per channel. The last pulse repeats once the script runs out
type scriptedSource struct {
	clock  rc.Clock
	script map[tankrc.Channel][]pulse
	polls  map[tankrc.Channel]int
	onPoll func(ch tankrc.Channel, n int)
	never  map[tankrc.Channel]bool
}

func newScriptedSource(clock rc.Clock, script map[tankrc.Channel][]pulse) *scriptedSource {
	return &scriptedSource{
		clock:  clock,
		script: script,
		polls:  map[tankrc.Channel]int{},
		never:  map[tankrc.Channel]bool{},
	}
}

func (s *scriptedSource) Sample(ch tankrc.Channel) rc.ChannelSample {
	n := s.polls[ch]
	s.polls[ch]++
	if s.onPoll != nil {
		s.onPoll(ch, n+1)
	}

	if s.never[ch] {
		return rc.ChannelSample{}
	}

	pulses := s.script[ch]
	if len(pulses) == 0 {
		return rc.ChannelSample{}
	}
	if n >= len(pulses) {
		n = len(pulses) - 1
	}

	p := pulses[n]
	return rc.ChannelSample{
		PulseWidth: p.width,
		LastChange: s.clock.Now().Add(-p.age),
	}
}

func live(widths ...uint16) []pulse {
	var pulses []pulse
	for _, w := range widths {
		pulses = append(pulses, pulse{width: w})
	}
	return pulses
}

type failingOutput struct {
	err error
}

func (f failingOutput) SetMotors(int16, int16) error { return f.err }

func (f failingOutput) SetAux(bool) error { return f.err }
