package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter allows Max requests per key in each fixed Window using Redis
// counters, so the budget is shared by every process.
type RedisLimiter struct {
	redis  redis.UniversalClient
	prefix string
	max    int64
	window time.Duration
}

// NewRedisLimiter creates a limiter with keys of the form prefix:key.
func NewRedisLimiter(client redis.UniversalClient, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "signup:rl"
	}
	return &RedisLimiter{redis: client, prefix: prefix, max: int64(max), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + ":" + key
	count, err := l.redis.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	// the window starts with its first hit
	if count == 1 {
		if err := l.redis.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return count <= l.max, nil
}
