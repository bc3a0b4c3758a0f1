package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// ThrottleOptions configures Throttle.
type ThrottleOptions struct {
	Window     time.Duration
	DelayAfter int
	Delay      time.Duration
	MaxDelay   time.Duration
	Store      Store
	// Skip exempts matching requests from counting.
	Skip func(r *http.Request) bool
	// Sleep waits for d or until ctx is done. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultThrottleOptions slows a client down after 50 requests in 15
// minutes: 500ms more per request, capped at 2s. Operational endpoints are
// exempt.
func DefaultThrottleOptions(store Store) ThrottleOptions {
	return ThrottleOptions{
		Window:     RateLimitWindow,
		DelayAfter: 50,
		Delay:      500 * time.Millisecond,
		MaxDelay:   2 * time.Second,
		Store:      store,
		Skip:       IsOperational,
	}
}

// ThrottleDelay is the wait for the count-th request in a window.
func (o ThrottleOptions) ThrottleDelay(count int) time.Duration {
	if count <= o.DelayAfter {
		return 0
	}
	d := time.Duration(count-o.DelayAfter) * o.Delay
	if o.MaxDelay > 0 && d > o.MaxDelay {
		d = o.MaxDelay
	}
	return d
}

// Throttle delays requests from a client that has used up its free budget.
// Every request counts whatever its outcome. A client that disconnects while
// waiting is dropped without reaching the handler.
func Throttle(opts ThrottleOptions) func(http.Handler) http.Handler {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Skip != nil && opts.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			count, _, err := opts.Store.Hit(r.Context(), "sd:"+ClientIP(r))
			if err != nil {
				logger.WithCtx(r.Context()).Warn("throttle store unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if d := opts.ThrottleDelay(count); d > 0 {
				metrics.ThrottleDelay.Observe(d.Seconds())
				if err := sleep(r.Context(), d); err != nil {
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
