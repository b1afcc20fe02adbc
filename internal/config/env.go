package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds the process settings read from the environment.
type Env struct {
	ConfigPath    string        `env:"EXTRACTION_CONFIG" envDefault:"./extraction_config.json"`
	DBPath        string        `env:"EXTRACTION_DB" envDefault:"./data/extraction.db"`
	ServerAddress string        `env:"EXTRACTION_ADDR"`
	TickInterval  time.Duration `env:"EXTRACTION_TICK_INTERVAL" envDefault:"60s"`
	// StartingFunds overrides the config file value when set.
	StartingFunds *int `env:"EXTRACTION_STARTING_FUNDS"`
}

// ParseEnv loads Env from the environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply overlays environment overrides onto a loaded config.
func (e Env) Apply(cfg *LoadedConfig) {
	if cfg == nil {
		return
	}
	if e.ServerAddress != "" {
		cfg.ServerAddress = e.ServerAddress
	}
	if e.StartingFunds != nil {
		cfg.StartingFunds = *e.StartingFunds
	}
}
