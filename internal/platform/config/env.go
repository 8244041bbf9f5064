// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the process settings. Every field can be set from the
// environment or a .env file in the working directory.
type Config struct {
	Addr          string        `env:"FATSIM_ADDR" envDefault:":8080"`
	DBPath        string        `env:"FATSIM_DB_PATH" envDefault:"fatsim.db"`
	SaveKey       string        `env:"FATSIM_SAVE_KEY" envDefault:"becomeFatSimulator"`
	StaticDir     string        `env:"FATSIM_STATIC_DIR" envDefault:"public"`
	TickRate      time.Duration `env:"FATSIM_TICK_RATE" envDefault:"1s"`
	AllowedOrigin string        `env:"FATSIM_ALLOWED_ORIGIN"`
	Profile       string        `env:"FATSIM_PROFILE" envDefault:"default"`
	EventLogSize  int           `env:"FATSIM_EVENT_LOG_SIZE" envDefault:"10000"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional .env files, then the environment.
// A missing .env file is not an error; a malformed one is.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.TickRate <= 0 {
		return Config{}, fmt.Errorf("FATSIM_TICK_RATE must be positive, got %v", cfg.TickRate)
	}
	return cfg, nil
}

// Tuning returns the tuning profile named by Profile.
func (c Config) Tuning() *Tuning {
	return TuningFor(c.Profile)
}
