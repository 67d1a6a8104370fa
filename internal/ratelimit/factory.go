package ratelimit

import (
	"context"
	"fmt"

	"debugkit/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewFromConfig builds the configured backend. The returned close function
// releases backend connections and is never nil.
func NewFromConfig(ctx context.Context, cfg config.RateLimitConfig, logger *zap.Logger) (Limiter, func() error, error) {
	lc := Config{
		MaxAttempts:   cfg.MaxAttempts,
		Window:        cfg.GetWindow(),
		BlockDuration: cfg.GetBlockDuration(),
	}
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", config.BackendMemory:
		l, err := NewMemory(lc, WithLogger(logger))
		if err != nil {
			return nil, noop, err
		}
		return l, noop, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		l, err := NewRedis(client, cfg.Redis.Prefix, lc, WithLogger(logger))
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return l, client.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown rate limit backend %q", cfg.Backend)
	}
}
