// Package ratelimit implements a fixed-window rate limiter backed by
// Redis INCR/EXPIRE. Without a configured Redis the limiter fails open
// so the bot stays available.
package ratelimit

import (
	"context"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"telegram_chess/internal/logger"
)

var client *redis.Client

// Init connects the shared Redis client. Empty addr or a failed ping
// leaves the limiter disabled (fail-open).
func Init(addr, password string, db int) {
	if addr == "" {
		return
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "error", err)
		return
	}
	client = c
	logger.Info("redis rate limiter enabled", "addr", addr)
}

// Enabled reports whether a Redis client is connected.
func Enabled() bool { return client != nil }

// Allow counts one hit against key's fixed window and reports whether
// it stays within max. Redis errors allow the request through.
func Allow(ctx context.Context, key string, max int, window time.Duration) bool {
	if client == nil {
		return true
	}

	fullKey := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + key
	val, err := client.Incr(ctx, fullKey).Result()
	if err != nil {
		logger.Warn("rate limiter redis error", "key", key, "error", err)
		return true
	}
	if val == 1 {
		client.Expire(ctx, fullKey, window)
	}
	return val <= int64(max)
}
