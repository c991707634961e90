package rc

import (
	"errors"
	"time"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config has the timing and range values for calibration, failsafe and mixing. Pulse widths are in microseconds
type Config struct {
	// NeutralMin and NeutralMax bound the pulse widths accepted as a neutral stick position
	NeutralMin uint16 `env:"NEUTRAL_MIN"`
	NeutralMax uint16 `env:"NEUTRAL_MAX"`

	// CalibrationInterval is the delay between calibration samples. It rides out receiver jitter
	CalibrationInterval time.Duration `env:"CALIBRATION_INTERVAL"`
	// CalibrationStaleness is the oldest a pulse can be and still be accepted during calibration
	CalibrationStaleness time.Duration `env:"CALIBRATION_STALENESS"`
	// CalibrationAttempts limits the samples taken per channel. Zero retries forever
	CalibrationAttempts int `env:"CALIBRATION_ATTEMPTS"`

	// FailsafeTimeout is how long a channel can go without a pulse edge before the signal is lost
	FailsafeTimeout time.Duration `env:"FAILSAFE_TIMEOUT"`
	// FailsafeSteering also watches the steering channel. Throttle is always watched
	FailsafeSteering bool `env:"FAILSAFE_STEERING"`

	// MaxCommand is the saturation bound for both motor commands
	MaxCommand int16 `env:"MAX_COMMAND"`

	// StartupDelay gives the receiver time to boot before calibration begins
	StartupDelay time.Duration `env:"STARTUP_DELAY"`
	// LoopInterval is slept between iterations in Controller.Run. Zero runs as fast as the host allows
	LoopInterval time.Duration `env:"LOOP_INTERVAL"`
}

// DefaultConfig returns the values used on the reference hardware
func DefaultConfig() Config {
	return Config{
		NeutralMin:           1300,
		NeutralMax:           1700,
		CalibrationInterval:  50 * time.Millisecond,
		CalibrationStaleness: 10 * time.Millisecond,
		CalibrationAttempts:  0,
		FailsafeTimeout:      200 * time.Millisecond,
		FailsafeSteering:     true,
		MaxCommand:           255,
		StartupDelay:         500 * time.Millisecond,
		LoopInterval:         0,
	}
}

// Validate makes sure the Config can be used by a Controller
func (c Config) Validate() error {
	switch {
	case c.NeutralMin == 0 || c.NeutralMin > c.NeutralMax:
		return invalid("neutral band must be non-empty and above zero")
	case c.CalibrationInterval <= 0:
		return invalid("calibration interval must be positive")
	case c.CalibrationStaleness <= 0:
		return invalid("calibration staleness must be positive")
	case c.CalibrationAttempts < 0:
		return invalid("calibration attempts cannot be negative")
	case c.FailsafeTimeout <= 0:
		return invalid("failsafe timeout must be positive")
	case c.MaxCommand < 1 || c.MaxCommand > 255:
		return invalid("max command must be in 1..255")
	case c.StartupDelay < 0:
		return invalid("startup delay cannot be negative")
	case c.LoopInterval < 0:
		return invalid("loop interval cannot be negative")
	}
	return nil
}

type configError struct {
	msg string
}

func (e configError) Error() string {
	return ErrInvalidConfig.Error() + ": " + e.msg
}

func (e configError) Unwrap() error {
	return ErrInvalidConfig
}

func invalid(msg string) error {
	return configError{msg}
}
