//go:build !tinygo

package rc

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable read by ConfigFromEnv
const EnvPrefix = "TANKRC_"

// ConfigFromEnv starts from DefaultConfig and overrides any value set in the environment,
// for example TANKRC_FAILSAFE_TIMEOUT=300ms
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return Config{}, fmt.Errorf("error parsing config from environment: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}
