package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMemoryLimiter_Cleanup(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l, err := NewMemory(testConfig, WithClock(clock.Now))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := l.Record(ctx, "a")
		require.NoError(t, err)
	}
	_, err = l.Record(ctx, "b")
	require.NoError(t, err)

	stats, _ := l.Stats(ctx)
	assert.Equal(t, Stats{Tracked: 2, Blocked: 1}, stats)

	clock.Advance(1500 * time.Millisecond)
	l.Cleanup()
	stats, _ = l.Stats(ctx)
	assert.Equal(t, Stats{Tracked: 0, Blocked: 1}, stats, "block outlives the window")

	clock.Advance(time.Second)
	l.Cleanup()
	stats, _ = l.Stats(ctx)
	assert.Equal(t, Stats{}, stats)
}

func TestMemoryLimiter_RunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	l, err := NewMemory(Config{MaxAttempts: 1, Window: time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	_, err = l.Record(ctx, "x")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		stats, _ := l.Stats(ctx)
		return stats.Tracked == 0 && stats.Blocked == 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestMemoryLimiter_RetryAfterCountsDown(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l, err := NewMemory(testConfig, WithClock(clock.Now))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _ = l.Record(ctx, "a")
	}
	clock.Advance(500 * time.Millisecond)

	res, err := l.Record(ctx, "a")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 1500*time.Millisecond, res.RetryAfter)
}
