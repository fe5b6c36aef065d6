// Package ratelimit limits requests per client IP, backed by a Redis sliding window
// or by Fiber's in-memory limiter when no Redis is configured.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/example/bfhl-api/domain/ratelimit"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims expired entries, counts the rest, and records the request
// when under the limit. It returns {allowed, remaining, retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local counter_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_size_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)

	if count < limit then
		local counter = redis.call('INCR', counter_key)
		redis.call('ZADD', key, now, now .. ':' .. counter)
		redis.call('PEXPIRE', key, window_size_ms)
		redis.call('PEXPIRE', counter_key, window_size_ms)
		return {1, limit - count - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local retry_after = 0
	if #oldest >= 2 then
		retry_after = oldest[2] + window_size_ms - now
	end
	return {0, 0, retry_after}
`)

// SlidingWindowLimiter implements ratelimit.Limiter on a Redis sorted set of request
// timestamps per key.
type SlidingWindowLimiter struct {
	client redis.Scripter
	config ratelimit.Config
}

var _ ratelimit.Limiter = (*SlidingWindowLimiter)(nil)

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(client redis.Scripter, config ratelimit.Config) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: client,
		config: config,
	}
}

// Allow records a request for key and reports whether it fits in the current window.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*ratelimit.Result, error) {
	now := time.Now()
	windowStart := now.Add(-l.config.WindowSize)
	redisKey := l.config.KeyPrefix + key
	counterKey := redisKey + ":counter"

	result, err := slidingWindowScript.Run(ctx, l.client, []string{redisKey, counterKey},
		now.UnixMilli(),
		windowStart.UnixMilli(),
		l.config.RequestsPerWindow,
		l.config.WindowSize.Milliseconds(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}

	if len(result) < 3 {
		return nil, fmt.Errorf("unexpected result length: %d", len(result))
	}

	allowedVal, ok := result[0].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for allowed: %T", result[0])
	}
	remainingVal, ok := result[1].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for remaining: %T", result[1])
	}
	retryAfterMs, err := toMillis(result[2])
	if err != nil {
		return nil, err
	}

	res := &ratelimit.Result{
		Allowed:   allowedVal == 1,
		Remaining: int(remainingVal),
		ResetAt:   now.Add(l.config.WindowSize),
	}
	if !res.Allowed && retryAfterMs > 0 {
		res.RetryAfter = time.Duration(retryAfterMs) * time.Millisecond
		res.ResetAt = now.Add(res.RetryAfter)
	}
	return res, nil
}

// Close is a no-op; the Redis client is owned by the module.
func (l *SlidingWindowLimiter) Close() error {
	return nil
}

// Config returns the limiter's configuration.
func (l *SlidingWindowLimiter) Config() ratelimit.Config {
	return l.config
}

// toMillis accepts the integer Redis returns for retry_after. Scores read back from
// ZRANGE are strings, so Lua arithmetic may hand back either form.
func toMillis(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("unexpected value for retry_after: %q", n)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("unexpected type for retry_after: %T", v)
	}
}
