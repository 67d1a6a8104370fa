package ratelimit

import (
	"context"
	"testing"

	"debugkit/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFromConfig_Memory(t *testing.T) {
	cfg := config.DefaultConfig().RateLimit

	l, closeFn, err := NewFromConfig(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &MemoryLimiter{}, l)
}

func TestNewFromConfig_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.DefaultConfig().RateLimit
	cfg.Backend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	l, closeFn, err := NewFromConfig(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	require.IsType(t, &RedisLimiter{}, l)
	res, err := l.Record(context.Background(), "someone")
	require.NoError(t, err)
	assert.Equal(t, cfg.MaxAttempts-1, res.Remaining)
	assert.NotEmpty(t, mr.Keys())
}

func TestNewFromConfig_Errors(t *testing.T) {
	cfg := config.DefaultConfig().RateLimit
	cfg.Backend = "etcd"
	_, closeFn, err := NewFromConfig(context.Background(), cfg, nil)
	assert.Error(t, err)
	assert.NoError(t, closeFn())

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg.Backend = config.BackendRedis
	cfg.Redis.Addr = addr
	_, _, err = NewFromConfig(context.Background(), cfg, nil)
	assert.Error(t, err)
}
