package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles credential attempts per identifier (email or IP)
// with a redis sliding window. Fails open when redis is unreachable so an
// outage does not lock everyone out.
type LoginLimiter struct {
	redis       *redis.Client
	window      time.Duration
	maxAttempts int
}

// NewLoginLimiter creates a limiter. A nil client disables limiting.
func NewLoginLimiter(client *redis.Client, window time.Duration, maxAttempts int) *LoginLimiter {
	return &LoginLimiter{redis: client, window: window, maxAttempts: maxAttempts}
}

// Allow records an attempt for the identifier and reports whether it stays
// under the window's attempt cap.
func (l *LoginLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	if l == nil || l.redis == nil {
		return true, nil
	}
	key := fmt.Sprintf("login_rate:%s", identifier)

	pipe := l.redis.Pipeline()
	now := time.Now().Unix()
	windowStart := now - int64(l.window.Seconds())

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: fmt.Sprintf("%d-%d", now, time.Now().UnixNano())})
	pipe.Expire(ctx, key, l.window*2)

	results, err := pipe.Exec(ctx)
	if err != nil {
		return true, fmt.Errorf("redis pipeline error: %w", err)
	}

	count := results[1].(*redis.IntCmd).Val()
	return count < int64(l.maxAttempts), nil
}
