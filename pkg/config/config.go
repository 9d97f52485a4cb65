// Package config holds settings shared by all commands. Defaults come from
// the environment; command line flags override them.
package config

import (
	"fmt"

	"github.com/appuio/symbiont-demo/pkg/script"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Speed scales authored step delays; 2 plays twice as fast.
	Speed float64 `env:"SYMBIONT_DEMO_SPEED" envDefault:"1"`
	// LogFile receives structured logs. Empty disables logging.
	LogFile string `env:"SYMBIONT_DEMO_LOG_FILE"`
	// ScriptsFile is an optional YAML file with additional scripts.
	ScriptsFile string `env:"SYMBIONT_DEMO_SCRIPTS"`
	// Autoplay starts playback whenever a script is selected in the terminal UI.
	Autoplay bool `env:"SYMBIONT_DEMO_AUTOPLAY" envDefault:"true"`
	Verbose  bool `env:"SYMBIONT_DEMO_VERBOSE"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", c.Speed)
	}
	return nil
}

// Catalog returns the builtin scripts merged with the scripts file, if any.
func (c Config) Catalog() (*script.Catalog, error) {
	catalog := script.Builtin()
	if c.ScriptsFile == "" {
		return catalog, nil
	}
	f, err := script.LoadFile(c.ScriptsFile)
	if err != nil {
		return nil, err
	}
	catalog.Merge(f)
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scripts: %w", err)
	}
	return catalog, nil
}
