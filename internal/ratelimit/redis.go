package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// recordScript prunes the window, checks the block and counts atomically.
//
// KEYS[1] attempts sorted set, KEYS[2] block key
// ARGV: now ms, window ms, max attempts, block ms, member, window start ms
var recordScript = redis.NewScript(`
local ttl = redis.call('PTTL', KEYS[2])
if ttl > 0 then
  return {0, 0, ttl}
end
local max = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[6])
local count = redis.call('ZCARD', KEYS[1])
if count >= max then
  redis.call('SET', KEYS[2], '1', 'PX', ARGV[4])
  return {0, 0, tonumber(ARGV[4])}
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[5])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
count = count + 1
if count >= max then
  redis.call('SET', KEYS[2], '1', 'PX', ARGV[4])
end
return {1, max - count, 0}
`)

// RedisLimiter shares attempt history between processes through Redis.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	cfg    Config
	now    func() time.Time
	logger *zap.Logger
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedis creates a limiter storing its keys under prefix.
func NewRedis(client redis.UniversalClient, prefix string, cfg Config, opts ...Option) (*RedisLimiter, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "ratelimit"
	}
	o := buildOptions(opts)
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		cfg:    cfg,
		now:    o.now,
		logger: o.logger,
	}, nil
}

func (r *RedisLimiter) attemptsKey(id string) string { return r.prefix + ":attempts:" + id }
func (r *RedisLimiter) blockedKey(id string) string  { return r.prefix + ":blocked:" + id }

func (r *RedisLimiter) windowStart(now time.Time) string {
	return strconv.FormatInt(now.Add(-r.cfg.Window).UnixMilli(), 10)
}

// Record registers a login attempt for id.
func (r *RedisLimiter) Record(ctx context.Context, id string) (Result, error) {
	id, err := normalizeID(id)
	if err != nil {
		return Result{}, err
	}
	now := r.now()

	member := fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString())
	vals, err := recordScript.Run(ctx, r.client,
		[]string{r.attemptsKey(id), r.blockedKey(id)},
		now.UnixMilli(),
		r.cfg.Window.Milliseconds(),
		r.cfg.MaxAttempts,
		r.cfg.BlockDuration.Milliseconds(),
		member,
		r.windowStart(now),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("record attempt: %w", err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("record attempt: unexpected reply %v", vals)
	}

	res := Result{
		Allowed:    vals[0] == 1,
		Remaining:  int(vals[1]),
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}
	if res.Allowed && res.Remaining == 0 {
		r.logger.Info("identifier blocked", zap.String("id", id), zap.Duration("block", r.cfg.BlockDuration))
	}
	return res, nil
}

// IsLimited reports whether id may not attempt a login right now.
func (r *RedisLimiter) IsLimited(ctx context.Context, id string) (bool, error) {
	id, err := normalizeID(id)
	if err != nil {
		return false, err
	}

	var blocked, count *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		blocked = p.Exists(ctx, r.blockedKey(id))
		p.ZRemRangeByScore(ctx, r.attemptsKey(id), "-inf", r.windowStart(r.now()))
		count = p.ZCard(ctx, r.attemptsKey(id))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check limit: %w", err)
	}
	return blocked.Val() > 0 || count.Val() >= int64(r.cfg.MaxAttempts), nil
}

// Reset forgets id.
func (r *RedisLimiter) Reset(ctx context.Context, id string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.attemptsKey(id), r.blockedKey(id)).Err(); err != nil {
		return fmt.Errorf("reset %s: %w", id, err)
	}
	return nil
}

// Stats counts attempt and block keys under the prefix.
func (r *RedisLimiter) Stats(ctx context.Context) (Stats, error) {
	tracked, err := r.countKeys(ctx, r.prefix+":attempts:*")
	if err != nil {
		return Stats{}, err
	}
	blocked, err := r.countKeys(ctx, r.prefix+":blocked:*")
	if err != nil {
		return Stats{}, err
	}
	return Stats{Tracked: tracked, Blocked: blocked}, nil
}

func (r *RedisLimiter) countKeys(ctx context.Context, pattern string) (int, error) {
	var (
		cursor uint64
		n      int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return 0, fmt.Errorf("scan %s: %w", pattern, err)
		}
		n += len(keys)
		cursor = next
		if cursor == 0 {
			return n, nil
		}
	}
}
