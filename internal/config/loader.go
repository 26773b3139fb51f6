package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadFromEnv.
const (
	EnvDataDir = "LEDGER_DATA"
	EnvAPIKey  = "LEDGER_API_KEY"
)

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*LedgerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg LedgerConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv builds a config from LEDGER_DATA and LEDGER_API_KEY alone.
func LoadFromEnv() *LedgerConfig {
	return &LedgerConfig{
		API:    APIConfig{APIKey: os.Getenv(EnvAPIKey)},
		Output: OutputConfig{DataDir: os.Getenv(EnvDataDir)},
	}
}

// LoadWithDefaults loads config and applies default values.
// An empty path falls back to LoadFromEnv.
func LoadWithDefaults(path string) (*LedgerConfig, error) {
	var cfg *LedgerConfig
	if path == "" {
		cfg = LoadFromEnv()
	} else {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*LedgerConfig, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
