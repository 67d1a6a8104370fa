package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("DEBUGKIT_LOG_LEVEL sets level", func(t *testing.T) {
		t.Setenv("DEBUGKIT_LOG_LEVEL", "warn")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("DEBUGKIT_DB sets database path", func(t *testing.T) {
		t.Setenv("DEBUGKIT_DB", "/tmp/users.db")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "/tmp/users.db", cfg.Users.DatabasePath)
	})

	t.Run("redis backend and address", func(t *testing.T) {
		t.Setenv("DEBUGKIT_RATE_LIMIT_BACKEND", "redis")
		t.Setenv("DEBUGKIT_REDIS_ADDR", "cache:6379")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, BackendRedis, cfg.RateLimit.Backend)
		assert.Equal(t, "cache:6379", cfg.RateLimit.Redis.Addr)
	})

	t.Run("DEBUGKIT_DETACH parses booleans", func(t *testing.T) {
		t.Setenv("DEBUGKIT_DETACH", "true")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Pipeline.Detach)
	})

	t.Run("DEBUGKIT_DETACH ignores garbage", func(t *testing.T) {
		t.Setenv("DEBUGKIT_DETACH", "perhaps")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.False(t, cfg.Pipeline.Detach)
	})

	t.Run("empty values leave defaults", func(t *testing.T) {
		t.Setenv("DEBUGKIT_LOG_LEVEL", "")
		t.Setenv("DEBUGKIT_DB", "")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, DefaultConfig().Logging.Level, cfg.Logging.Level)
		assert.Equal(t, DefaultConfig().Users.DatabasePath, cfg.Users.DatabasePath)
	})
}
