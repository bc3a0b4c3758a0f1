// Package kernel assembles the HTTP handler of the catalog API: the global
// middleware stack, operational endpoints and the application routes.
package kernel

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

const RouteNotFoundMessage = "Route not found"

// Options configures the kernel.
type Options struct {
	Logger *slog.Logger
	// RateStore backs both the rate limiter and the throttle.
	RateStore middleware.Store
	// Throttle overrides the default slow-down settings when non-nil.
	Throttle *middleware.ThrottleOptions
	// Routes registers the application routes.
	Routes []func(*router.Router)
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers; otherwise
	// clients choose the address they are rate limited under.
	TrustProxy bool
}

// New builds the router with the global middleware stack applied.
//
// Global middleware (outermost → innermost):
//  1. Prometheus metrics: outermost for accurate total latency
//  2. Recovery: catches panics before they kill the goroutine
//  3. Request ID: inject unique ID before anything logs
//  4. RealIP: client address from X-Forwarded-For / X-Real-IP, only with TrustProxy
//  5. Logger: logs request_id from context
//  6. Security headers
//  7. CORS
//  8. Rate limiter: reject abusers early
//  9. Throttle: slow down heavy clients
func New(opts Options) *router.Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := router.New(router.WithErrorHandler(middleware.HandleErrors(log)))

	throttle := middleware.DefaultThrottleOptions(opts.RateStore)
	if opts.Throttle != nil {
		throttle = *opts.Throttle
		throttle.Store = opts.RateStore
	}

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(middleware.DefaultRateLimitOptions(opts.RateStore)))
	r.Use(middleware.Throttle(throttle))

	r.Handle(http.MethodGet, "/health", "health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Health(w)
	}))
	r.Handle(http.MethodGet, "/metrics", "metrics", metrics.Handler())

	for _, fn := range opts.Routes {
		fn(r)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, RouteNotFoundMessage)
	})

	return r
}

// Handler is New(opts).Handler().
func Handler(opts Options) http.Handler {
	return New(opts).Handler()
}
