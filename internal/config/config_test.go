package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// UNIFIED CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "debugkit" {
		t.Errorf("expected Name=debugkit, got %s", cfg.Name)
	}
	if cfg.RateLimit.Backend != BackendMemory {
		t.Errorf("expected Backend=memory, got %s", cfg.RateLimit.Backend)
	}
	if cfg.Samples.Email != nil {
		t.Errorf("expected no sample email, got %q", *cfg.Samples.Email)
	}
	assert.Equal(t, []int{10, 20, 30, 40}, cfg.Samples.Numbers)
	assert.Equal(t, []int{100, 50, 0, 25}, cfg.Samples.Divisors)
	assert.Equal(t, 1000, cfg.Samples.Numerator)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	// Ensure no env vars interfere
	t.Setenv("DEBUGKIT_LOG_LEVEL", "")
	t.Setenv("DEBUGKIT_DB", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Pipeline.Detach = true
	email := "someone@example.com"
	cfg.Samples.Email = &email

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", loaded.Logging.Level)
	assert.True(t, loaded.Pipeline.Detach)
	require.NotNil(t, loaded.Samples.Email)
	assert.Equal(t, email, *loaded.Samples.Email)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("DEBUGKIT_LOG_LEVEL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Users, cfg.Users)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unterminated"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rate_limit:\n  max_attempts: 3\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.RateLimit.MaxAttempts)
	assert.Equal(t, "15m", cfg.RateLimit.Window)
	assert.Equal(t, []int{100, 50, 0, 25}, cfg.Samples.Divisors)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"zero attempts", func(c *Config) { c.RateLimit.MaxAttempts = 0 }, "max_attempts"},
		{"unknown backend", func(c *Config) { c.RateLimit.Backend = "etcd" }, "invalid rate_limit.backend"},
		{"redis without addr", func(c *Config) {
			c.RateLimit.Backend = BackendRedis
			c.RateLimit.Redis.Addr = ""
		}, "redis.addr"},
		{"empty db path", func(c *Config) { c.Users.DatabasePath = "" }, "database_path"},
		{"unparseable window", func(c *Config) { c.RateLimit.Window = "15 minutes" }, "invalid rate_limit.window"},
		{"negative window", func(c *Config) { c.RateLimit.Window = "-1m" }, "rate_limit.window must be positive"},
		{"unparseable block", func(c *Config) { c.RateLimit.BlockDuration = "forever" }, "invalid rate_limit.block_duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateAcceptsEmptyDurations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit.Window = ""
	cfg.RateLimit.BlockDuration = ""
	assert.NoError(t, cfg.Validate())
}

func TestRateLimitDurations(t *testing.T) {
	c := RateLimitConfig{Window: "2s", BlockDuration: ""}
	assert.Equal(t, 2*time.Second, c.GetWindow())
	assert.Equal(t, 2*time.Second, c.GetBlockDuration())

	c = RateLimitConfig{Window: "nonsense", BlockDuration: "1h"}
	assert.Equal(t, 15*time.Minute, c.GetWindow())
	assert.Equal(t, time.Hour, c.GetBlockDuration())
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	c := LoggingConfig{}
	assert.True(t, c.IsCategoryEnabled("pipeline"))

	c.Categories = map[string]bool{"pipeline": false, "users": true}
	assert.False(t, c.IsCategoryEnabled("pipeline"))
	assert.True(t, c.IsCategoryEnabled("users"))
	assert.True(t, c.IsCategoryEnabled("store"))
}
