package ui

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/tankrc/rc"
)

// configForm holds the editable config values as they are typed
type configForm struct {
	NeutralMin       string
	NeutralMax       string
	FailsafeTimeout  string
	MaxCommand       string
	FailsafeSteering bool
}

func formFromConfig(cfg rc.Config) configForm {
	return configForm{
		NeutralMin:       strconv.Itoa(int(cfg.NeutralMin)),
		NeutralMax:       strconv.Itoa(int(cfg.NeutralMax)),
		FailsafeTimeout:  strconv.Itoa(int(cfg.FailsafeTimeout.Milliseconds())),
		MaxCommand:       strconv.Itoa(int(cfg.MaxCommand)),
		FailsafeSteering: cfg.FailsafeSteering,
	}
}

// config applies the form on top of base and validates the result
func (f configForm) config(base rc.Config) (rc.Config, error) {
	neutralMin, err := strconv.ParseUint(f.NeutralMin, 10, 16)
	if err != nil {
		return rc.Config{}, fmt.Errorf("invalid neutral min: %w", err)
	}
	neutralMax, err := strconv.ParseUint(f.NeutralMax, 10, 16)
	if err != nil {
		return rc.Config{}, fmt.Errorf("invalid neutral max: %w", err)
	}
	failsafeMs, err := strconv.Atoi(f.FailsafeTimeout)
	if err != nil {
		return rc.Config{}, fmt.Errorf("invalid failsafe timeout: %w", err)
	}
	maxCommand, err := strconv.ParseInt(f.MaxCommand, 10, 16)
	if err != nil {
		return rc.Config{}, fmt.Errorf("invalid max command: %w", err)
	}

	cfg := base
	cfg.NeutralMin = uint16(neutralMin)
	cfg.NeutralMax = uint16(neutralMax)
	cfg.FailsafeTimeout = time.Duration(failsafeMs) * time.Millisecond
	cfg.MaxCommand = int16(maxCommand)
	cfg.FailsafeSteering = f.FailsafeSteering

	err = cfg.Validate()
	if err != nil {
		return rc.Config{}, err
	}
	return cfg, nil
}

type ConfigWindow struct {
	app      fyne.App
	OnSubmit func(rc.Config)
}

func NewConfigWindow(app fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: app,
	}
}

func loadConfigFromPreferences(prefs fyne.Preferences) rc.Config {
	cfg := rc.DefaultConfig()
	cfg.NeutralMin = uint16(prefs.IntWithFallback("neutralMin", int(cfg.NeutralMin)))
	cfg.NeutralMax = uint16(prefs.IntWithFallback("neutralMax", int(cfg.NeutralMax)))
	cfg.FailsafeTimeout = time.Duration(prefs.IntWithFallback("failsafeTimeoutMs", int(cfg.FailsafeTimeout.Milliseconds()))) * time.Millisecond
	cfg.MaxCommand = int16(prefs.IntWithFallback("maxCommand", int(cfg.MaxCommand)))
	cfg.FailsafeSteering = prefs.BoolWithFallback("failsafeSteering", cfg.FailsafeSteering)
	return cfg
}

func saveConfigToPreferences(prefs fyne.Preferences, cfg rc.Config) {
	prefs.SetInt("neutralMin", int(cfg.NeutralMin))
	prefs.SetInt("neutralMax", int(cfg.NeutralMax))
	prefs.SetInt("failsafeTimeoutMs", int(cfg.FailsafeTimeout.Milliseconds()))
	prefs.SetInt("maxCommand", int(cfg.MaxCommand))
	prefs.SetBool("failsafeSteering", cfg.FailsafeSteering)
}

func (cw *ConfigWindow) Show() {
	window := cw.app.NewWindow("Tank RC - Configuration")
	window.Resize(fyne.NewSize(400, 250))
	window.SetCloseIntercept(func() {
		// Treat window close as cancel
		window.Close()
		cw.app.Quit()
	})
	window.Show()

	base := loadConfigFromPreferences(cw.app.Preferences())
	form := formFromConfig(base)

	neutralMinEntry := widget.NewEntryWithData(binding.BindString(&form.NeutralMin))
	neutralMaxEntry := widget.NewEntryWithData(binding.BindString(&form.NeutralMax))
	failsafeEntry := widget.NewEntryWithData(binding.BindString(&form.FailsafeTimeout))
	maxCommandEntry := widget.NewEntryWithData(binding.BindString(&form.MaxCommand))
	steeringCheck := widget.NewCheckWithData("Watch steering", binding.BindBool(&form.FailsafeSteering))

	submitButton := widget.NewButton("Submit", func() {
		cfg, err := form.config(base)
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		saveConfigToPreferences(cw.app.Preferences(), cfg)
		cw.OnSubmit(cfg)
		window.Close()
	})

	content := container.NewVBox(
		widget.NewCard("Configuration", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Neutral Min (us):"),
				neutralMinEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Neutral Max (us):"),
				neutralMaxEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Failsafe Timeout (ms):"),
				failsafeEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Max Command:"),
				maxCommandEntry,
			),
			steeringCheck,
		)),
		container.NewHBox(
			widget.NewButton("Cancel", func() {
				window.Close()
				cw.app.Quit()
			}),
			submitButton,
		),
	)

	window.SetContent(content)
}
