package config

import "time"

// LedgerConfig is the root configuration for a ledger run.
type LedgerConfig struct {
	API      APIConfig      `yaml:"api"`
	Output   OutputConfig   `yaml:"output"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Run      RunConfig      `yaml:"run"`
	Database DatabaseConfig `yaml:"database"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// APIConfig holds auction API settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	Locale       string        `yaml:"locale"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`   // Transport-level retries (5xx, 429)
	RetryBackoff time.Duration `yaml:"retry_backoff"` // Base backoff for transport retries
}

// OutputConfig holds snapshot output settings.
type OutputConfig struct {
	DataDir string `yaml:"data_dir"`
}

// FetchConfig holds the snapshot availability retry policy.
type FetchConfig struct {
	MaxRetries int           `yaml:"max_retries"` // Additional attempts when the file listing is absent; -1 disables
	RetryDelay time.Duration `yaml:"retry_delay"` // Pause between attempts; negative disables
}

// RunConfig holds scheduling settings.
type RunConfig struct {
	GroupDelay time.Duration `yaml:"group_delay"` // Pause between auction houses; 0 disables
	Interval   time.Duration `yaml:"interval"`    // Daemon mode pass interval; 0 runs once
}

// DatabaseConfig holds the optional Postgres stats sink.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// MetricsConfig holds Prometheus metrics settings (daemon mode only).
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}
