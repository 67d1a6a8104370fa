package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryLimiter keeps attempt history in process memory.
type MemoryLimiter struct {
	cfg    Config
	now    func() time.Time
	logger *zap.Logger

	mu           sync.Mutex
	attempts     map[string][]time.Time
	blockedUntil map[string]time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemory creates an in-process limiter.
func NewMemory(cfg Config, opts ...Option) (*MemoryLimiter, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &MemoryLimiter{
		cfg:          cfg,
		now:          o.now,
		logger:       o.logger,
		attempts:     make(map[string][]time.Time),
		blockedUntil: make(map[string]time.Time),
	}, nil
}

// Record registers a login attempt for id.
func (l *MemoryLimiter) Record(_ context.Context, id string) (Result, error) {
	id, err := normalizeID(id)
	if err != nil {
		return Result{}, err
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if limited, retry := l.limitedLocked(id, now); limited {
		if _, blocked := l.blockedUntil[id]; !blocked {
			l.blockedUntil[id] = now.Add(l.cfg.BlockDuration)
			retry = l.cfg.BlockDuration
		}
		return Result{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
	}

	l.attempts[id] = append(l.attempts[id], now)
	count := len(l.attempts[id])

	if count >= l.cfg.MaxAttempts {
		l.blockedUntil[id] = now.Add(l.cfg.BlockDuration)
		l.logger.Info("identifier blocked",
			zap.String("id", id),
			zap.Int("attempts", count),
			zap.Duration("block", l.cfg.BlockDuration))
	}

	return Result{Allowed: true, Remaining: l.cfg.MaxAttempts - count}, nil
}

// IsLimited reports whether id may not attempt a login right now.
func (l *MemoryLimiter) IsLimited(_ context.Context, id string) (bool, error) {
	id, err := normalizeID(id)
	if err != nil {
		return false, err
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	limited, _ := l.limitedLocked(id, now)
	return limited, nil
}

// Reset forgets id, e.g. after a successful login.
func (l *MemoryLimiter) Reset(_ context.Context, id string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, id)
	delete(l.blockedUntil, id)
	return nil
}

// Stats returns the number of tracked and blocked identifiers.
func (l *MemoryLimiter) Stats(_ context.Context) (Stats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{Tracked: len(l.attempts), Blocked: len(l.blockedUntil)}, nil
}

// Cleanup drops attempts outside the window and expired blocks.
func (l *MemoryLimiter) Cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for id := range l.attempts {
		l.pruneLocked(id, now)
	}
	for id, until := range l.blockedUntil {
		if !now.Before(until) {
			delete(l.blockedUntil, id)
		}
	}
}

// Run calls Cleanup once per window until ctx is done.
func (l *MemoryLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.Window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

// limitedLocked must be called with mu held.
func (l *MemoryLimiter) limitedLocked(id string, now time.Time) (bool, time.Duration) {
	if until, ok := l.blockedUntil[id]; ok {
		if now.Before(until) {
			return true, until.Sub(now)
		}
		delete(l.blockedUntil, id)
	}

	if len(l.pruneLocked(id, now)) >= l.cfg.MaxAttempts {
		return true, l.cfg.Window
	}
	return false, 0
}

// pruneLocked keeps attempts newer than now-Window and returns them.
func (l *MemoryLimiter) pruneLocked(id string, now time.Time) []time.Time {
	history, ok := l.attempts[id]
	if !ok {
		return nil
	}

	windowStart := now.Add(-l.cfg.Window)
	recent := history[:0]
	for _, ts := range history {
		if ts.After(windowStart) {
			recent = append(recent, ts)
		}
	}

	if len(recent) == 0 {
		delete(l.attempts, id)
		return nil
	}
	l.attempts[id] = recent
	return recent
}
