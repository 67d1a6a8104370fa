package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all debugkit configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Hard-coded demo inputs, overridable for experiments
	Samples SamplesConfig `yaml:"samples"`

	// Orchestrator behaviour
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Login rate limiting
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// User storage
	Users UsersConfig `yaml:"users"`

	// Prometheus metrics
	Metrics MetricsConfig `yaml:"metrics"`
}

// PipelineConfig configures the data processing orchestrator.
type PipelineConfig struct {
	// Detach starts the background units without waiting for them.
	// Their output may be lost if the process exits first.
	Detach bool `yaml:"detach"`
}

// MetricsConfig toggles pipeline metrics collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "debugkit",
		Version: "0.3.0",

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},

		Samples: DefaultSamples(),

		Pipeline: PipelineConfig{
			Detach: false,
		},

		RateLimit: RateLimitConfig{
			Backend:       BackendMemory,
			MaxAttempts:   5,
			Window:        "15m",
			BlockDuration: "30m",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "debugkit:login",
			},
		},

		Users: UsersConfig{
			DatabasePath: "data/users.db",
		},

		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Defaults still honour the environment
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("DEBUGKIT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if path := os.Getenv("DEBUGKIT_DB"); path != "" {
		c.Users.DatabasePath = path
	}

	if addr := os.Getenv("DEBUGKIT_REDIS_ADDR"); addr != "" {
		c.RateLimit.Redis.Addr = addr
	}
	if backend := os.Getenv("DEBUGKIT_RATE_LIMIT_BACKEND"); backend != "" {
		c.RateLimit.Backend = backend
	}

	if v := os.Getenv("DEBUGKIT_DETACH"); v != "" {
		if detach, err := strconv.ParseBool(v); err == nil {
			c.Pipeline.Detach = detach
		}
	}
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	if err := c.RateLimit.Validate(); err != nil {
		return err
	}

	if c.Users.DatabasePath == "" {
		return fmt.Errorf("users.database_path must not be empty")
	}

	return nil
}
