// Package ui is a desktop simulator for the robot. Sliders stand in for the transmitter sticks and
// the motor commands, headlight and loop status are shown as the control loop produces them
package ui

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/tankrc"
	"github.com/calvinmclean/tankrc/rc"
	"github.com/calvinmclean/tankrc/sim"
)

const appID = "com.github.calvinmclean.tankrc"

var (
	headlightOn  = color.RGBA{R: 255, G: 214, B: 0, A: 255}
	headlightOff = color.RGBA{R: 80, G: 80, B: 80, A: 255}
)

func createSlider(labelText string, onSet func(uint16)) *fyne.Container {
	valueLabel := widget.NewLabel(strconv.Itoa(int(sim.CenterPulse)))

	slider := widget.NewSlider(float64(sim.MinPulse), float64(sim.MaxPulse))
	slider.Step = 10
	slider.SetValue(float64(sim.CenterPulse))
	slider.OnChanged = func(value float64) {
		valueLabel.SetText(fmt.Sprintf("%.0f", value))
		onSet(uint16(value))
	}

	centerButton := widget.NewButton("Center", func() {
		slider.SetValue(float64(sim.CenterPulse))
	})

	container := container.NewVBox(
		container.NewGridWithColumns(3,
			widget.NewLabel(labelText),
			valueLabel,
			centerButton,
		),
		slider,
	)

	return container
}

func createMotorBar(labelText string, limit int16) (*fyne.Container, *widget.ProgressBar) {
	bar := widget.NewProgressBar()
	bar.Min = -float64(limit)
	bar.Max = float64(limit)
	bar.SetValue(0)
	bar.TextFormatter = func() string {
		return fmt.Sprintf("%.0f", bar.Value)
	}

	return container.NewGridWithColumns(2, widget.NewLabel(labelText), bar), bar
}

// statusText formats the loop status like the firmware's debug output
func statusText(s status) string {
	text := "state=" + s.State.String() + " signal=" + s.Signal.String()
	if s.State == tankrc.StateRunning {
		text += fmt.Sprintf(" neutral=%d/%d", s.Calibration.NeutralThrottle, s.Calibration.NeutralSteering)
	}
	return text
}

type SimulatorUI struct{}

func NewSimulatorUI() *SimulatorUI {
	return &SimulatorUI{}
}

// Run shows the config window and then the simulator until the context is cancelled or the app
// is closed
func (ui *SimulatorUI) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	application := app.NewWithID(appID)

	configWindow := NewConfigWindow(application)
	configWindow.OnSubmit = func(cfg rc.Config) {
		ui.showSimulator(ctx, application, cfg)
	}
	configWindow.Show()

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	application.Run()
}

func (ui *SimulatorUI) showSimulator(ctx context.Context, application fyne.App, cfg rc.Config) {
	window := application.NewWindow("Tank RC - Simulator")

	s, err := newSimulator(cfg, rc.SystemClock{})
	if err != nil {
		dialog.ShowError(err, window)
		window.Show()
		return
	}

	uptime := newTimer()
	uptime.Go(ctx)

	statusLabel := widget.NewLabel(statusText(s.Status()))

	throttleContainer := createSlider("Throttle", func(width uint16) {
		s.transmitter.SetPulse(tankrc.ChannelThrottle, width)
	})
	steeringContainer := createSlider("Steering", func(width uint16) {
		s.transmitter.SetPulse(tankrc.ChannelSteering, width)
	})

	auxCheck := widget.NewCheck("High Beam", func(on bool) {
		s.transmitter.SetAux(on)
	})
	connectedCheck := widget.NewCheck("Transmitter On", func(on bool) {
		if on {
			s.transmitter.Connect()
			return
		}
		s.transmitter.Disconnect()
	})
	connectedCheck.SetChecked(s.transmitter.Connected())

	leftContainer, leftBar := createMotorBar("Left", cfg.MaxCommand)
	rightContainer, rightBar := createMotorBar("Right", cfg.MaxCommand)

	headlight := canvas.NewCircle(headlightOff)
	headlightLabel := widget.NewLabel("Headlight")

	// OnChange runs on the simulator goroutine so only changes are sent to the UI
	var lastLeft, lastRight int16
	var lastHighBeam, updated bool
	s.outputs.OnChange = func(left, right int16, highBeam bool) {
		if updated && left == lastLeft && right == lastRight && highBeam == lastHighBeam {
			return
		}
		lastLeft, lastRight, lastHighBeam, updated = left, right, highBeam, true

		fyne.Do(func() {
			leftBar.SetValue(float64(left))
			rightBar.SetValue(float64(right))
			if highBeam {
				headlight.FillColor = headlightOn
			} else {
				headlight.FillColor = headlightOff
			}
			headlight.Refresh()
		})
	}

	go func() {
		err := s.run(ctx)
		if err != nil {
			fyne.Do(func() {
				dialog.ShowError(fmt.Errorf("error running simulator: %w", err), window)
			})
		}
	}()

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		started := false
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			st := s.Status()
			if !started && !st.StartTime.IsZero() {
				uptime.Set(st.StartTime)
				started = true
			}

			text := statusText(st)
			fyne.Do(func() {
				statusLabel.SetText(text)
			})
		}
	}()

	contentContainer := container.NewVBox(
		container.NewHBox(
			container.NewPadded(uptime.text),
			layout.NewSpacer(),
			statusLabel,
		),
		throttleContainer,
		steeringContainer,
		container.NewHBox(auxCheck, connectedCheck),
		leftContainer,
		rightContainer,
		container.NewHBox(
			container.NewGridWrap(fyne.NewSize(24, 24), headlight),
			headlightLabel,
		),
	)

	window.SetContent(contentContainer)
	window.Resize(fyne.NewSize(400, 300))
	window.SetOnClosed(func() {
		application.Quit()
	})
	window.Show()
}
