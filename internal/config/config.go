// Package config holds processing configuration for the sigproc CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultFallbackDensity is the fixed ocean density assumed when a
	// dataset has no rho_ocean field, in kg/m^3.
	DefaultFallbackDensity = 1027.0

	// On-missing policies: prompt the operator, or decide up front.
	OnMissingAsk      = "ask"
	OnMissingContinue = "continue"
	OnMissingAbort    = "abort"
)

type Config struct {
	// FallbackDensity replaces a missing rho_ocean field when the
	// resolution continues.
	FallbackDensity float64 `yaml:"fallback_density"`

	// OnMissing selects how missing ancillary fields are resolved:
	// "ask" (interactive prompt), "continue" or "abort".
	OnMissing string `yaml:"on_missing"`
}

func DefaultConfig() *Config {
	return &Config{
		FallbackDensity: DefaultFallbackDensity,
		OnMissing:       OnMissingAsk,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.OnMissing {
	case OnMissingAsk, OnMissingContinue, OnMissingAbort:
	default:
		return fmt.Errorf("config: unknown on_missing policy %q", c.OnMissing)
	}
	if c.FallbackDensity <= 0 {
		return fmt.Errorf("config: fallback_density must be positive, got %f", c.FallbackDensity)
	}
	return nil
}
