package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL         = "https://us.api.battle.net/wow"
	DefaultLocale          = "en_US"
	DefaultAPITimeout      = 30 * time.Second
	DefaultAPIMaxRetries   = 3
	DefaultAPIRetryBackoff = 1 * time.Second
	DefaultFetchMaxRetries = 4
	DefaultFetchRetryDelay = 1 * time.Second
	DefaultGroupDelay      = 1 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 4
	DefaultMinConns        = 1
	DefaultMetricsPort     = 9090
	DefaultMetricsPath     = "/metrics"
	DefaultLogLevel        = "info"
)

func (c *LedgerConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Locale == "" {
		c.API.Locale = DefaultLocale
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultAPIMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultAPIRetryBackoff
	}

	// Fetch defaults. Negative values in the file mean "none": a single
	// attempt, or no pause between attempts.
	if c.Fetch.MaxRetries == 0 {
		c.Fetch.MaxRetries = DefaultFetchMaxRetries
	} else if c.Fetch.MaxRetries < 0 {
		c.Fetch.MaxRetries = 0
	}
	if c.Fetch.RetryDelay == 0 {
		c.Fetch.RetryDelay = DefaultFetchRetryDelay
	} else if c.Fetch.RetryDelay < 0 {
		c.Fetch.RetryDelay = 0
	}

	// Run defaults. A negative group delay in the file means "no pause".
	if c.Run.GroupDelay == 0 {
		c.Run.GroupDelay = DefaultGroupDelay
	} else if c.Run.GroupDelay < 0 {
		c.Run.GroupDelay = 0
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
