package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"alfredoptarigan/career-pathfinder/internal/config"
	"alfredoptarigan/career-pathfinder/internal/logger"
)

// CounterStore counts hits per key inside a window that starts with the
// first hit and resets once it has elapsed.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

type RateDecision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type RateLimiter struct {
	store  CounterStore
	limit  int
	window time.Duration
}

func NewRateLimiter(store CounterStore, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{store: store, limit: limit, window: window}
}

// Allow records one request for key. A limit <= 0 disables limiting.
func (r *RateLimiter) Allow(ctx context.Context, key string) (RateDecision, error) {
	if r.limit <= 0 {
		return RateDecision{Allowed: true, Remaining: -1}, nil
	}
	count, resetAt, err := r.store.Incr(ctx, key, r.window)
	if err != nil {
		return RateDecision{}, fmt.Errorf("failed to count request: %w", err)
	}
	remaining := r.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return RateDecision{
		Allowed:   count <= int64(r.limit),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

type memoryCounter struct {
	count   int64
	resetAt time.Time
}

// MemoryCounterStore is the single-instance default.
type MemoryCounterStore struct {
	mu        sync.Mutex
	counters  map[string]*memoryCounter
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return newMemoryCounterStore(time.Now)
}

func newMemoryCounterStore(now func() time.Time) *MemoryCounterStore {
	return &MemoryCounterStore{
		counters: make(map[string]*memoryCounter),
		now:      now,
	}
}

// Incr implements CounterStore.
func (m *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	c, ok := m.counters[key]
	if !ok || !now.Before(c.resetAt) {
		c = &memoryCounter{resetAt: now.Add(window)}
		m.counters[key] = c
	}
	c.count++
	return c.count, c.resetAt, nil
}

// sweep drops expired keys at most once a minute.
func (m *MemoryCounterStore) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < time.Minute {
		return
	}
	m.lastSweep = now
	for key, c := range m.counters {
		if !now.Before(c.resetAt) {
			delete(m.counters, key)
		}
	}
}

// size reports how many keys are tracked.
func (m *MemoryCounterStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counters)
}

type redisCounterStore struct {
	rdb    *goredis.Client
	prefix string
	log    *logger.Logger
}

// NewRedisCounterStore shares counters between instances through Redis.
func NewRedisCounterStore(cfg config.RedisConfig, log *logger.Logger) (CounterStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCounterStore{
		rdb:    rdb,
		prefix: "ratelimit:",
		log:    log.With("service", "RedisCounterStore"),
	}, nil
}

// Incr implements CounterStore.
func (s *redisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	k := s.prefix + key
	var (
		incr *goredis.IntCmd
		ttl  *goredis.DurationCmd
	)
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis incr: %w", err)
	}

	count := incr.Val()
	remaining := ttl.Val()
	if remaining <= 0 {
		// first hit of a window, or a key that lost its expiry
		if err := s.rdb.PExpire(ctx, k, window).Err(); err != nil {
			s.log.Warn("failed to set rate limit expiry", "key", k, "error", err)
		}
		remaining = window
	}
	return count, time.Now().Add(remaining), nil
}
