package ratelimit

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"
)

func TestAllowFailsOpenWithoutRedis(t *testing.T) {
	if Enabled() {
		t.Skip("redis configured in this environment")
	}
	for i := 0; i < 100; i++ {
		if !Allow(context.Background(), "user:1", 1, time.Second) {
			t.Fatal("limiter must fail open when redis is not configured")
		}
	}
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestAllowIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	Init(addr, pass, db)
	if !Enabled() {
		t.Fatal("limiter failed to connect")
	}

	key := "test:" + strconv.FormatInt(time.Now().UnixNano(), 10)
	window := 2 * time.Second
	max := 2

	for i := 0; i < max; i++ {
		if !Allow(context.Background(), key, max, window) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if Allow(context.Background(), key, max, window) {
		t.Fatal("request above the limit should be blocked")
	}

	time.Sleep(window + 500*time.Millisecond)
	if !Allow(context.Background(), key, max, window) {
		t.Fatal("request after window expiry should be allowed")
	}
}
