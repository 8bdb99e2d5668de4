package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter per key.
type RateLimiter struct {
	client redisv9.Cmdable
	limit  int
	window time.Duration
}

func NewRateLimiter(client redisv9.Cmdable, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts one hit for key and reports whether it is within the limit,
// plus the time left in the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, fmt.Errorf("redis rate limit failed: %w", err)
	}

	windowEnd := time.Unix(0, (bucket+1)*int64(l.window))
	return incr.Val() <= int64(l.limit), time.Until(windowEnd), nil
}
