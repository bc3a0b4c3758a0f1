package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/clock"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ─── CORS ─────────────────────────────────────────────────────────────────────

func TestCORS_SimpleRequest(t *testing.T) {
	h := CORS(DefaultCORSOptions())(ok)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := CORS(DefaultCORSOptions())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET,HEAD,PUT,PATCH,POST,DELETE", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type,Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_SpecificOrigin(t *testing.T) {
	h := CORS(CORSOptions{AllowedOrigins: []string{"https://a.example"}})(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://b.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://a.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

// ─── Security headers ─────────────────────────────────────────────────────────

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	h := rec.Header()
	assert.Contains(t, h.Get("Content-Security-Policy"), "img-src 'self' data: https:")
	assert.Contains(t, h.Get("Content-Security-Policy"), "style-src 'self' 'unsafe-inline'")
	assert.Equal(t, "cross-origin", h.Get("Cross-Origin-Resource-Policy"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", h.Get("X-Frame-Options"))
	assert.Empty(t, h.Get("Cross-Origin-Embedder-Policy"))
	assert.Empty(t, h.Get("X-Powered-By"))
}

// ─── Rate limit ───────────────────────────────────────────────────────────────

func newMemStore(t *testing.T, clk clock.Clock) *MemoryStore {
	s := NewMemoryStore(RateLimitWindow, clk)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func hit(h http.Handler, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_RejectsAfterLimit(t *testing.T) {
	clk := clock.NewMock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	opts := DefaultRateLimitOptions(newMemStore(t, clk))
	opts.Clock = clk
	h := RateLimit(opts)(ok)

	for i := 0; i < RateLimitMax; i++ {
		require.Equal(t, http.StatusOK, hit(h, "/api/products", "10.0.0.1").Code, "request %d", i+1)
	}

	rec := hit(h, "/api/products", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, TooManyRequestsMessage, body["message"])
	assert.Nil(t, body["data"])
	assert.Equal(t, "900", rec.Header().Get("Retry-After"))
	assert.Equal(t, `"100-in-15min"; r=0; t=900`, rec.Header().Get("RateLimit"))

	// other clients keep their own budget
	assert.Equal(t, http.StatusOK, hit(h, "/api/products", "10.0.0.2").Code)

	// a new window starts fresh
	clk.Advance(RateLimitWindow)
	assert.Equal(t, http.StatusOK, hit(h, "/api/products", "10.0.0.1").Code)
}

func TestRateLimit_Headers(t *testing.T) {
	clk := clock.NewMock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	opts := DefaultRateLimitOptions(newMemStore(t, clk))
	opts.Clock = clk
	h := RateLimit(opts)(ok)

	rec := hit(h, "/api/products", "10.0.0.1")
	assert.Equal(t, `"100-in-15min"; q=100; w=900`, rec.Header().Get("RateLimit-Policy"))
	assert.Equal(t, `"100-in-15min"; r=99; t=900`, rec.Header().Get("RateLimit"))
}

func TestRateLimit_OperationalEndpointsExempt(t *testing.T) {
	opts := DefaultRateLimitOptions(newMemStore(t, nil))
	opts.Limit = 1
	h := RateLimit(opts)(ok)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "/health", "10.0.0.1").Code)
		rec := hit(h, "/metrics", "10.0.0.1")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("RateLimit"))
	}
	assert.Equal(t, http.StatusOK, hit(h, "/api/products", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "/api/products", "10.0.0.1").Code)
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("redis down")
}

func TestRateLimit_StoreFailureLetsRequestThrough(t *testing.T) {
	h := RateLimit(DefaultRateLimitOptions(failingStore{}))(ok)
	assert.Equal(t, http.StatusOK, hit(h, "/api/products", "10.0.0.1").Code)
}

func TestMemoryStore_Evict(t *testing.T) {
	clk := clock.NewMock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s := newMemStore(t, clk)
	ctx := context.Background()

	n, _, _ := s.Hit(ctx, "a")
	assert.Equal(t, 1, n)
	n, _, _ = s.Hit(ctx, "a")
	assert.Equal(t, 2, n)

	clk.Advance(RateLimitWindow + time.Second)
	s.evict()
	s.mu.Lock()
	assert.Empty(t, s.buckets)
	s.mu.Unlock()
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:1234"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	r.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "192.0.2.7", ClientIP(r), "forwarding headers are not trusted")

	r.RemoteAddr = "192.0.2.8"
	assert.Equal(t, "192.0.2.8", ClientIP(r))
}

// ─── Throttle ─────────────────────────────────────────────────────────────────

func TestThrottleDelay(t *testing.T) {
	o := DefaultThrottleOptions(nil)

	assert.Zero(t, o.ThrottleDelay(1))
	assert.Zero(t, o.ThrottleDelay(50))
	assert.Equal(t, 500*time.Millisecond, o.ThrottleDelay(51))
	assert.Equal(t, 1500*time.Millisecond, o.ThrottleDelay(53))
	assert.Equal(t, 2*time.Second, o.ThrottleDelay(54))
	assert.Equal(t, 2*time.Second, o.ThrottleDelay(500))
}

func TestThrottle_DelaysAfterBudget(t *testing.T) {
	var (
		mu     sync.Mutex
		delays []time.Duration
	)
	opts := DefaultThrottleOptions(newMemStore(t, nil))
	opts.Sleep = func(_ context.Context, d time.Duration) error {
		mu.Lock()
		delays = append(delays, d)
		mu.Unlock()
		return nil
	}
	h := Throttle(opts)(ok)

	for i := 0; i < 52; i++ {
		require.Equal(t, http.StatusOK, hit(h, "/api/products", "10.0.0.9").Code)
	}

	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, delays)
}

func TestThrottle_OperationalEndpointsExempt(t *testing.T) {
	store := newMemStore(t, nil)
	opts := DefaultThrottleOptions(store)
	opts.DelayAfter = 0
	slept := 0
	opts.Sleep = func(context.Context, time.Duration) error { slept++; return nil }
	h := Throttle(opts)(ok)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hit(h, "/metrics", "10.0.0.3").Code)
		require.Equal(t, http.StatusOK, hit(h, "/health", "10.0.0.3").Code)
	}
	assert.Zero(t, slept)

	n, _, err := store.Hit(context.Background(), "sd:10.0.0.3")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "exempt requests are not counted")
}

func TestThrottle_CancelledWaitSkipsHandler(t *testing.T) {
	opts := DefaultThrottleOptions(newMemStore(t, nil))
	opts.DelayAfter = 0
	opts.Sleep = func(ctx context.Context, _ time.Duration) error { return context.Canceled }

	called := false
	h := Throttle(opts)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	hit(h, "/api/products", "10.0.0.1")

	assert.False(t, called)
}

func TestSleepCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))
}

// ─── Recovery ─────────────────────────────────────────────────────────────────

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, InternalErrorMessage, body["message"])
	assert.NotContains(t, rec.Body.String(), "kaboom")
}

// ─── Error handling ───────────────────────────────────────────────────────────

type notFound struct{ code string }

func (e notFound) Error() string { return "Product not found: " + e.code }
func (e notFound) Status() int   { return http.StatusNotFound }

type fields map[string]string

func (f fields) Error() string                    { return "validation failed" }
func (f fields) InvalidFields() map[string]string { return f }

type castErr struct{}

func (castErr) Error() string     { return "cannot decode string into float64" }
func (castErr) CastField() string { return "capacity" }

func TestClassify(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"status error", fmt.Errorf("wrapped: %w", notFound{"X1"}), 404, "Product not found: X1"},
		{"validation", fields{"capacity": "bad"}, 400, ValidationErrorMessage},
		{"cast", castErr{}, 400, InvalidDataMessage},
		{"duplicate key", dup, 400, DuplicateRecordMessage},
		{"malformed json", fmt.Errorf("%w: unexpected EOF", bind.ErrMalformedBody), 400, InvalidJSONMessage},
		{"unclassified", errors.New("secret connection string"), 500, InternalErrorMessage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, message := Classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.message, message)
		})
	}
}

func TestHandleErrors_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleErrors(nil)(rec, httptest.NewRequest(http.MethodGet, "/api/products/X", nil), errors.New("db password=hunter2"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(500), body["status"])
	assert.Equal(t, InternalErrorMessage, body["message"])
	assert.Contains(t, body, "data")
	assert.Nil(t, body["data"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestHandleErrors_DoesNotWriteTwice(t *testing.T) {
	rec := httptest.NewRecorder()
	w := response.Track(rec)
	_, _ = w.Write([]byte("partial"))

	HandleErrors(nil)(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("late"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}
