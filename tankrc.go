package tankrc

// Channel is a receiver channel index as wired to the pulse capture hardware
type Channel int

const (
	ChannelThrottle Channel = iota
	ChannelSteering
	ChannelAux
)

// NumChannels is the number of receiver channels the robot reads
const NumChannels = 3

// Channels lists every channel in capture order
var Channels = [NumChannels]Channel{ChannelThrottle, ChannelSteering, ChannelAux}

func (c Channel) String() string {
	switch c {
	case ChannelThrottle:
		return "Throttle"
	case ChannelSteering:
		return "Steering"
	case ChannelAux:
		return "Aux"
	default:
		return "Unknown"
	}
}

// State is the control loop state. The loop starts Calibrating and only ever moves to Running
type State int

const (
	StateCalibrating State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateCalibrating:
		return "Calibrating"
	case StateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// Signal tells if the receiver signal was live on the latest loop iteration
type Signal int

const (
	SignalOK Signal = iota
	SignalLost
)

func (s Signal) String() string {
	switch s {
	case SignalOK:
		return "OK"
	case SignalLost:
		return "Lost"
	default:
		return "Unknown"
	}
}
