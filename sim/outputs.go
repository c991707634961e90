package sim

import (
	"sync"

	"github.com/calvinmclean/tankrc/rc"
)

// Outputs records the latest motor, headlight and indicator values. OnChange is called after every
// update when it is set
type Outputs struct {
	mtx       *sync.Mutex
	left      int16
	right     int16
	highBeam  bool
	indicator bool
	calls     int

	OnChange func(left, right int16, highBeam bool)
}

var (
	_ rc.MotorOutput = &Outputs{}
	_ rc.AuxOutput   = &Outputs{}
	_ rc.Indicator   = &Outputs{}
)

// NewOutputs creates Outputs with both motors stopped
func NewOutputs() *Outputs {
	return &Outputs{mtx: &sync.Mutex{}}
}

// SetMotors implements rc.MotorOutput.
func (o *Outputs) SetMotors(left, right int16) error {
	o.mtx.Lock()
	o.left = left
	o.right = right
	o.calls++
	o.mtx.Unlock()

	o.changed()
	return nil
}

// SetAux implements rc.AuxOutput.
func (o *Outputs) SetAux(high bool) error {
	o.mtx.Lock()
	o.highBeam = high
	o.mtx.Unlock()

	o.changed()
	return nil
}

// Set implements rc.Indicator.
func (o *Outputs) Set(on bool) {
	o.mtx.Lock()
	o.indicator = on
	o.mtx.Unlock()
}

// Motors returns the latest motor commands
func (o *Outputs) Motors() (int16, int16) {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	return o.left, o.right
}

// HighBeam returns the latest headlight state
func (o *Outputs) HighBeam() bool {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	return o.highBeam
}

// Indicator returns the latest indicator state
func (o *Outputs) Indicator() bool {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	return o.indicator
}

// Calls returns how many times SetMotors was called
func (o *Outputs) Calls() int {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	return o.calls
}

func (o *Outputs) changed() {
	if o.OnChange == nil {
		return
	}
	left, right := o.Motors()
	o.OnChange(left, right, o.HighBeam())
}
