// Package config provides configuration loading and validation for the survey service.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Duration is a time.Duration that reads from JSON strings such as "30m".
type Duration time.Duration

// UnmarshalJSON accepts a Go duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("invalid duration %s", string(data))
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a Go duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the service configuration that can be loaded from a JSON file.
// All fields are optional; missing values fall back to the environment and then defaults.
type Config struct {
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	CORSOrigin  string `json:"cors_origin,omitempty"`  // Access-Control-Allow-Origin value

	SessionTTL      Duration `json:"session_ttl,omitempty"`      // Idle time before a session is dropped
	CleanupInterval Duration `json:"cleanup_interval,omitempty"` // How often idle sessions are swept
	SubmitTimeout   Duration `json:"submit_timeout,omitempty"`   // Upper bound on a single store write

	DisableMetrics bool `json:"disable_metrics,omitempty"` // Do not expose /metrics
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            8080,
		CORSOrigin:      "*",
		SessionTTL:      Duration(2 * time.Hour),
		CleanupInterval: Duration(5 * time.Minute),
		SubmitTimeout:   Duration(15 * time.Second),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset or malformed
// variables leave the corresponding field zero.
func FromEnv() Config {
	cfg := Config{
		Port:            getEnvInt("PORT", 0),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CORSOrigin:      os.Getenv("CORS_ORIGIN"),
		SessionTTL:      Duration(getEnvDuration("SESSION_TTL", 0)),
		CleanupInterval: Duration(getEnvDuration("SESSION_CLEANUP_INTERVAL", 0)),
		SubmitTimeout:   Duration(getEnvDuration("SUBMIT_TIMEOUT", 0)),
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.DisableMetrics = !enabled
		}
	}
	return cfg
}

// Resolve merges an optional config file over the environment and the defaults.
func Resolve(path string) (Config, error) {
	base := FromEnv()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		base = fileCfg.MergeWithDefaults(base)
	}

	cfg := base.MergeWithDefaults(Defaults())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("config error: 'session_ttl' must be non-negative")
	}
	if c.CleanupInterval < 0 {
		return fmt.Errorf("config error: 'cleanup_interval' must be non-negative")
	}
	if c.SubmitTimeout < 0 {
		return fmt.Errorf("config error: 'submit_timeout' must be non-negative")
	}
	return nil
}

// WarnIfIncomplete logs a warning for settings the service can run without but
// cannot fully work without.
func (c *Config) WarnIfIncomplete() {
	if c.DatabaseURL == "" {
		log.Printf("Warning: DATABASE_URL is not set; survey submissions will fail until a database is configured")
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}
	if result.SessionTTL == 0 {
		result.SessionTTL = defaults.SessionTTL
	}
	if result.CleanupInterval == 0 {
		result.CleanupInterval = defaults.CleanupInterval
	}
	if result.SubmitTimeout == 0 {
		result.SubmitTimeout = defaults.SubmitTimeout
	}

	// Bool fields: either source disabling metrics wins
	result.DisableMetrics = result.DisableMetrics || defaults.DisableMetrics

	return result
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
