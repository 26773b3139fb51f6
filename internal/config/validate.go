package config

import (
	"fmt"
	"os"
	"strings"
)

// ConfigError reports a missing or invalid configuration value.
// It is fatal: the ledger must not start any work with an invalid config.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Field + " " + e.Reason
}

func invalid(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks that all required fields are set and values are valid.
func (c *LedgerConfig) Validate() error {
	if strings.TrimSpace(c.API.APIKey) == "" {
		return invalid("api.api_key", "is required (or set %s)", EnvAPIKey)
	}
	if c.API.BaseURL == "" {
		return invalid("api.base_url", "is required")
	}

	if err := validateDataDir(c.Output.DataDir); err != nil {
		return err
	}

	if c.Fetch.MaxRetries < 0 {
		return invalid("fetch.max_retries", "must be >= 0")
	}
	if c.Run.Interval < 0 {
		return invalid("run.interval", "must be >= 0")
	}

	if c.Database.Enabled {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return invalid("metrics.port", "must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

// validateDataDir checks that dir exists, is a directory and accepts new files.
func validateDataDir(dir string) error {
	if dir == "" {
		return invalid("output.data_dir", "is required (or set %s)", EnvDataDir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return invalid("output.data_dir", "is not accessible: %v", err)
	}
	if !info.IsDir() {
		return invalid("output.data_dir", "%q is not a directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".ledger-probe-*")
	if err != nil {
		return invalid("output.data_dir", "is not writable: %v", err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}

func (db *DatabaseConfig) validate(prefix string) error {
	if db.Host == "" {
		return invalid(prefix+".host", "is required")
	}
	if db.Name == "" {
		return invalid(prefix+".name", "is required")
	}
	if db.User == "" {
		return invalid(prefix+".user", "is required")
	}
	if db.Password == "" {
		return invalid(prefix+".password", "is required")
	}
	if db.MaxConns < 1 {
		return invalid(prefix+".max_conns", "must be >= 1")
	}
	if db.MinConns < 0 {
		return invalid(prefix+".min_conns", "must be >= 0")
	}
	if db.MinConns > db.MaxConns {
		return invalid(prefix+".min_conns", "(%d) cannot exceed max_conns (%d)", db.MinConns, db.MaxConns)
	}
	return nil
}
