// Package middleware provides the HTTP middleware of the catalog API.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/catalog/pkg/clock"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

const (
	RateLimitWindow        = 15 * time.Minute
	RateLimitMax           = 100
	TooManyRequestsMessage = "Too many requests from this IP, please try again later"
)

// Store counts hits per key in fixed windows.
type Store interface {
	// Hit records one request for key and returns the count in the current
	// window and when that window ends.
	Hit(ctx context.Context, key string) (count int, resetAt time.Time, err error)
}

// ─────────────────────────────────────────────
// In-memory store
// ─────────────────────────────────────────────

// bucket tracks a fixed-window request count for one key.
type bucket struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps counters in process memory. Expired buckets are evicted
// every minute until Close is called.
type MemoryStore struct {
	window time.Duration
	clock  clock.Clock

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a store with the given window. A nil clk uses the
// system clock.
func NewMemoryStore(window time.Duration, clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.Real()
	}
	s := &MemoryStore{
		window:  window,
		clock:   clk,
		buckets: map[string]*bucket{},
		stop:    make(chan struct{}),
	}
	go s.janitor(time.Minute)
	return s
}

func (s *MemoryStore) Hit(_ context.Context, key string) (int, time.Time, error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(s.window)}
		s.buckets[key] = b
	}
	b.count++
	return b.count, b.resetAt, nil
}

// Close stops the eviction goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evict()
		}
	}
}

func (s *MemoryStore) evict() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, b := range s.buckets {
		if !now.Before(b.resetAt) {
			delete(s.buckets, key)
		}
	}
}

// ─────────────────────────────────────────────
// Redis store
// ─────────────────────────────────────────────

// RedisStore keeps counters in Redis so several instances share one budget.
// Each key expires with its window.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
	window time.Duration
}

func NewRedisStore(rdb redis.Cmdable, prefix string, window time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, window: window}
}

func (s *RedisStore) Hit(ctx context.Context, key string) (int, time.Time, error) {
	k := s.prefix + key

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, s.window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("rate store: %w", err)
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = s.window
	}
	return int(incr.Val()), time.Now().Add(remaining), nil
}

// ─────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────

// RateLimitOptions configures RateLimit.
type RateLimitOptions struct {
	Limit  int
	Window time.Duration
	Store  Store
	Clock  clock.Clock
	// Skip exempts matching requests from counting.
	Skip func(r *http.Request) bool
}

// DefaultRateLimitOptions allows 100 requests per IP every 15 minutes and
// exempts the operational endpoints.
func DefaultRateLimitOptions(store Store) RateLimitOptions {
	return RateLimitOptions{
		Limit:  RateLimitMax,
		Window: RateLimitWindow,
		Store:  store,
		Skip:   IsOperational,
	}
}

// IsOperational matches /health and /metrics, which probes and scrapers hit
// on a schedule and which never count against a client.
func IsOperational(r *http.Request) bool {
	return r.URL.Path == "/health" || r.URL.Path == "/metrics"
}

// RateLimit rejects clients that exceed opts.Limit requests per window with
// a 429 envelope. Every response carries RateLimit-Policy and RateLimit
// headers. When the store fails the request is let through and the failure
// is logged.
func RateLimit(opts RateLimitOptions) func(http.Handler) http.Handler {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	windowSecs := int(opts.Window / time.Second)
	policy := fmt.Sprintf(`"%d-in-%s"`, opts.Limit, windowName(opts.Window))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Skip != nil && opts.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			count, resetAt, err := opts.Store.Hit(r.Context(), "rl:"+ClientIP(r))
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limiter store unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			remaining := opts.Limit - count
			if remaining < 0 {
				remaining = 0
			}
			reset := int(resetAt.Sub(clk.Now()).Round(time.Second) / time.Second)
			if reset < 0 {
				reset = 0
			}

			h := w.Header()
			h.Set("RateLimit-Policy", fmt.Sprintf("%s; q=%d; w=%d", policy, opts.Limit, windowSecs))
			h.Set("RateLimit", fmt.Sprintf("%s; r=%d; t=%d", policy, remaining, reset))

			if count > opts.Limit {
				metrics.RateLimited.Inc()
				logger.WithCtx(r.Context()).Warn("rate limit exceeded",
					slog.String("ip", ClientIP(r)),
					slog.String("path", r.URL.Path),
				)
				h.Set("Retry-After", strconv.Itoa(reset))
				response.Error(w, http.StatusTooManyRequests, TooManyRequestsMessage)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the request's peer address without the port. Forwarding
// headers are ignored unless chi's RealIP runs first, which the kernel only
// mounts behind a trusted proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func windowName(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		return strconv.Itoa(int(d/time.Hour)) + "h"
	case d%time.Minute == 0:
		return strconv.Itoa(int(d/time.Minute)) + "min"
	default:
		return strconv.Itoa(int(d/time.Second)) + "s"
	}
}
