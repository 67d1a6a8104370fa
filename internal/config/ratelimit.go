package config

import (
	"fmt"
	"time"
)

// Rate limiter backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// RateLimitConfig configures login attempt limiting.
type RateLimitConfig struct {
	Backend       string      `yaml:"backend"` // memory, redis
	MaxAttempts   int         `yaml:"max_attempts"`
	Window        string      `yaml:"window"`
	BlockDuration string      `yaml:"block_duration"`
	Redis         RedisConfig `yaml:"redis"`
}

// RedisConfig locates the shared limiter state.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// GetWindow returns the sliding window as a duration.
func (c *RateLimitConfig) GetWindow() time.Duration {
	d, err := time.ParseDuration(c.Window)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// GetBlockDuration returns the lockout duration, falling back to the window.
func (c *RateLimitConfig) GetBlockDuration() time.Duration {
	d, err := time.ParseDuration(c.BlockDuration)
	if err != nil || d <= 0 {
		return c.GetWindow()
	}
	return d
}

// Validate checks the limiter settings.
func (c *RateLimitConfig) Validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("rate_limit.max_attempts must be positive, got %d", c.MaxAttempts)
	}
	if err := validDuration("rate_limit.window", c.Window); err != nil {
		return err
	}
	if err := validDuration("rate_limit.block_duration", c.BlockDuration); err != nil {
		return err
	}
	switch c.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("rate_limit.redis.addr required for redis backend")
		}
	default:
		return fmt.Errorf("invalid rate_limit.backend: %s (valid: %s, %s)", c.Backend, BackendMemory, BackendRedis)
	}
	return nil
}

// validDuration accepts an empty value, which the getters replace with a default.
func validDuration(field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", field, value)
	}
	return nil
}
