package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestRateLimiterWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := newMemoryCounterStore(clock.Now)
	limiter := NewRateLimiter(store, 3, time.Hour)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := limiter.Allow(ctx, "profile:1.2.3.4")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !d.Allowed || d.Remaining != 3-i {
			t.Fatalf("hit %d: %#v", i, d)
		}
	}

	d, _ := limiter.Allow(ctx, "profile:1.2.3.4")
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("4th hit should be denied: %#v", d)
	}
	if !d.ResetAt.Equal(clock.now.Add(time.Hour)) {
		t.Fatalf("resetAt = %v", d.ResetAt)
	}

	other, _ := limiter.Allow(ctx, "profile:5.6.7.8")
	if !other.Allowed {
		t.Fatalf("keys must be independent")
	}

	clock.Advance(time.Hour)
	d, _ = limiter.Allow(ctx, "profile:1.2.3.4")
	if !d.Allowed || d.Remaining != 2 {
		t.Fatalf("window should have reset: %#v", d)
	}
}

func TestMemoryCounterStoreSweeps(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := newMemoryCounterStore(clock.Now)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if _, _, err := store.Incr(ctx, key, time.Minute); err != nil {
			t.Fatalf("Incr: %v", err)
		}
	}
	if store.size() != 3 {
		t.Fatalf("len = %d", store.size())
	}

	clock.Advance(2 * time.Minute)
	if _, _, err := store.Incr(ctx, "d", time.Minute); err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if store.size() != 1 {
		t.Fatalf("expired keys should be swept, len = %d", store.size())
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(failingStore{}, 0, time.Hour)
	d, err := limiter.Allow(context.Background(), "k")
	if err != nil || !d.Allowed || d.Remaining != -1 {
		t.Fatalf("disabled limiter = %#v, %v", d, err)
	}
}

func TestRateLimiterStoreError(t *testing.T) {
	limiter := NewRateLimiter(failingStore{}, 5, time.Hour)
	if _, err := limiter.Allow(context.Background(), "k"); err == nil {
		t.Fatalf("store errors should surface")
	}
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("store down")
}
