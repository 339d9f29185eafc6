package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

func TestNoopValkey_BasicOps(t *testing.T) {
	cch := NewNoopValkeyCache(logger.NewNop())
	ctx := context.Background()

	if err := cch.Set(ctx, "k1", "v1", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, err := cch.Get(ctx, "k1")
	if err != nil || string(b) != "v1" {
		t.Fatalf("get: %v %q", err, string(b))
	}
	if err := cch.Delete(ctx, "k1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := cch.Get(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := cch.Set(ctx, "json", map[string]int{"a": 1}, 0); err != nil {
		t.Fatalf("set json: %v", err)
	}
	if b, _ := cch.Get(ctx, "json"); string(b) != `{"a":1}` {
		t.Fatalf("unexpected json value: %s", string(b))
	}

	if err := cch.HealthCheck(ctx); !errors.Is(err, ErrNoopCache) {
		t.Fatalf("expected noop health error, got %v", err)
	}
}

func TestNoopValkey_Expiry(t *testing.T) {
	cch := NewNoopValkeyCache(logger.NewNop()).(*noopValkeyCache)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cch.now = func() time.Time { return now }
	ctx := context.Background()

	if err := cch.Set(ctx, "k", "v", time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	now = now.Add(time.Second)
	if _, err := cch.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key, got %v", err)
	}
}

func TestNoopValkey_Incr(t *testing.T) {
	cch := NewNoopValkeyCache(logger.NewNop()).(*noopValkeyCache)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cch.now = func() time.Time { return now }
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := cch.Incr(ctx, "rl", time.Minute)
		if err != nil || got != want {
			t.Fatalf("incr: want %d got %d (%v)", want, got, err)
		}
	}

	now = now.Add(2 * time.Minute)
	if got, _ := cch.Incr(ctx, "rl", time.Minute); got != 1 {
		t.Fatalf("expected counter to restart after expiry, got %d", got)
	}

	_ = cch.Set(ctx, "text", "abc", 0)
	if _, err := cch.Incr(ctx, "text", 0); err == nil {
		t.Fatalf("expected error incrementing non-integer value")
	}
}
