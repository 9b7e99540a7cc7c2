package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

const redisTimeout = 250 * time.Millisecond

// RedisLimiter shares windows across server instances. When Redis is
// unreachable it falls back to the local limiter.
type RedisLimiter struct {
	client   redis.Scripter
	script   *redis.Script
	fallback Limiter
	prefix   string
	logger   *slog.Logger
}

func NewRedisLimiter(client redis.Scripter, fallback Limiter, logger *slog.Logger) *RedisLimiter {
	if fallback == nil {
		fallback = NewMemoryLimiter()
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &RedisLimiter{
		client:   client,
		script:   redis.NewScript(rateLimitScript),
		fallback: fallback,
		prefix:   "placement:ratelimit:",
		logger:   logger,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{l.prefix + key}, ttl, limit).Int64()
	if err != nil {
		l.logger.Warn("redis rate limit unavailable, using local limiter", slog.Any("err", err))
		return l.fallback.Allow(ctx, key, limit, window)
	}

	return allowed == 1
}
