// Package ratelimit throttles login attempts per identifier (username, email
// or IP) with a sliding window and a lockout once the window fills up.
//
// An identifier is limited while it is explicitly blocked or while it has
// MaxAttempts or more attempts inside the window. The attempt that reaches
// MaxAttempts is still allowed and starts a block of BlockDuration.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrEmptyIdentifier = errors.New("identifier must not be empty")
	ErrInvalidConfig   = errors.New("invalid rate limiter config")
)

// Config sets the limiter thresholds.
type Config struct {
	MaxAttempts   int
	Window        time.Duration
	BlockDuration time.Duration // zero falls back to Window
}

func (c Config) normalize() (Config, error) {
	if c.MaxAttempts <= 0 {
		return c, fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	if c.Window <= 0 {
		return c, fmt.Errorf("%w: window must be positive, got %s", ErrInvalidConfig, c.Window)
	}
	if c.BlockDuration <= 0 {
		c.BlockDuration = c.Window
	}
	return c, nil
}

// Result describes the outcome of recording an attempt.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // zero when allowed
}

// Stats is a snapshot for monitoring.
type Stats struct {
	Tracked int // identifiers with attempts in memory / storage
	Blocked int // identifiers currently locked out
}

// Limiter is implemented by MemoryLimiter and RedisLimiter.
type Limiter interface {
	Record(ctx context.Context, id string) (Result, error)
	IsLimited(ctx context.Context, id string) (bool, error)
	Reset(ctx context.Context, id string) error
	Stats(ctx context.Context) (Stats, error)
}

type options struct {
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a limiter.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func normalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrEmptyIdentifier
	}
	return id, nil
}
