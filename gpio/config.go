// Package gpio runs the robot from a Linux single-board computer. Receiver pulses are timed from
// GPIO edge events and the motor driver inputs are driven with software PWM
package gpio

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/calvinmclean/tankrc/rc"
)

// consumer labels the requested lines in gpioinfo output
const consumer = "tankrc"

// Config has the GPIO chip and line offsets. Defaults match BCM numbering on a Raspberry Pi
type Config struct {
	Chip string `env:"GPIO_CHIP" envDefault:"gpiochip0"`

	Throttle int `env:"GPIO_THROTTLE" envDefault:"17"`
	Steering int `env:"GPIO_STEERING" envDefault:"27"`
	Aux      int `env:"GPIO_AUX" envDefault:"22"`

	Headlight int `env:"GPIO_HEADLIGHT" envDefault:"26"`
	StatusLED int `env:"GPIO_STATUS_LED" envDefault:"16"`

	// Motor driver inputs. Forward is A driven while B is held low
	LeftA  int `env:"GPIO_LEFT_A" envDefault:"5"`
	LeftB  int `env:"GPIO_LEFT_B" envDefault:"6"`
	RightA int `env:"GPIO_RIGHT_A" envDefault:"13"`
	RightB int `env:"GPIO_RIGHT_B" envDefault:"19"`

	// PWMPeriod is the software PWM cycle for the motor outputs
	PWMPeriod time.Duration `env:"GPIO_PWM_PERIOD" envDefault:"10ms"`
	// MaxCommand is the motor command that maps to a 100% duty cycle
	MaxCommand int16 `env:"MAX_COMMAND" envDefault:"255"`
}

// ConfigFromEnv reads Config from TANKRC_ environment variables
func ConfigFromEnv() (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{Prefix: rc.EnvPrefix})
	if err != nil {
		return Config{}, fmt.Errorf("error parsing gpio config: %w", err)
	}

	if cfg.PWMPeriod <= 0 {
		return Config{}, fmt.Errorf("%w: pwm period must be positive", rc.ErrInvalidConfig)
	}
	if cfg.MaxCommand < 1 {
		return Config{}, fmt.Errorf("%w: max command must be positive", rc.ErrInvalidConfig)
	}

	return cfg, nil
}

// channelOffsets returns the input line offsets in capture order
func (c Config) channelOffsets() []int {
	return []int{c.Throttle, c.Steering, c.Aux}
}

// duty splits one PWM period for a motor command. pattern is the A/B line values while the output
// is high. During the low part both lines are held low so the motor coasts
func duty(v, limit int16, period time.Duration) (pattern [2]int, high, low time.Duration) {
	high = time.Duration(rc.Speed(v, limit, uint32(period)))
	low = period - high

	switch {
	case high == 0:
		return [2]int{0, 0}, 0, period
	case v > 0:
		pattern = [2]int{1, 0}
	default:
		pattern = [2]int{0, 1}
	}

	return pattern, high, low
}
