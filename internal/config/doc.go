// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Without a config file, LoadFromEnv reads LEDGER_DATA and LEDGER_API_KEY.
package config
