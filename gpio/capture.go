//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"github.com/calvinmclean/tankrc"
	"github.com/calvinmclean/tankrc/rc"
)

// PulseCapture times receiver pulses from kernel edge events. The kernel timestamps each edge so
// pulse widths do not depend on how quickly the handler runs
type PulseCapture struct {
	lines    *gpiocdev.Lines
	clock    rc.Clock
	channels map[int]tankrc.Channel

	mtx      *sync.Mutex
	trackers [tankrc.NumChannels]rc.EdgeTracker
}

var _ rc.PulseSource = &PulseCapture{}

func newPulseCapture(cfg Config, clock rc.Clock) *PulseCapture {
	channels := map[int]tankrc.Channel{}
	for i, offset := range cfg.channelOffsets() {
		channels[offset] = tankrc.Channels[i]
	}

	return &PulseCapture{
		clock:    clock,
		channels: channels,
		mtx:      &sync.Mutex{},
	}
}

// NewPulseCapture requests the receiver input lines and starts handling their edges
func NewPulseCapture(cfg Config, clock rc.Clock) (*PulseCapture, error) {
	p := newPulseCapture(cfg, clock)

	lines, err := gpiocdev.RequestLines(cfg.Chip, cfg.channelOffsets(),
		gpiocdev.WithConsumer(consumer),
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(p.handleEvent))
	if err != nil {
		return nil, fmt.Errorf("error requesting receiver lines: %w", err)
	}
	p.lines = lines

	return p, nil
}

func (p *PulseCapture) handleEvent(evt gpiocdev.LineEvent) {
	ch, ok := p.channels[evt.Offset]
	if !ok {
		return
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.trackers[ch].Edge(evt.Type == gpiocdev.LineEventRisingEdge, evt.Timestamp, p.clock.Now())
}

// Sample implements rc.PulseSource.
func (p *PulseCapture) Sample(ch tankrc.Channel) rc.ChannelSample {
	if ch < 0 || int(ch) >= tankrc.NumChannels {
		return rc.ChannelSample{}
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.trackers[ch].Sample()
}

func (p *PulseCapture) Close() error {
	if p.lines == nil {
		return nil
	}
	return p.lines.Close()
}
