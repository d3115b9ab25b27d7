package redis

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"
)

// Requires a running Redis; set REDIS_TEST_ADDR to enable.
func TestRedisStoreGetSet(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping redis test")
	}
	ctx := context.Background()
	s, err := New(ctx, Options{Addr: addr, Prefix: "budget-test:" + strconv.FormatInt(time.Now().UnixNano(), 10) + ":"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	if _, found, err := s.Get(ctx, "k"); found || err != nil {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}
	if err := s.Set(ctx, "k", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, found, err := s.Get(ctx, "k")
	if err != nil || !found || v != "[]" {
		t.Fatalf("unexpected get: %q %v %v", v, found, err)
	}
}
