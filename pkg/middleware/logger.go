package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// Logger logs each request with method, path, status, duration and client
// IP, tagged with the request_id set by reqid.Middleware. Handlers further
// down get the tagged logger from logger.WithCtx.
//
//	r.Use(reqid.Middleware())
//	r.Use(middleware.Logger(log))
func Logger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			root := base
			if root == nil {
				root = logger.L
			}

			reqLog := root.With("request_id", reqid.FromCtx(r.Context()))
			r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

			tw := response.Track(w)
			next.ServeHTTP(tw, r)

			status := tw.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			reqLog.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", time.Since(start).String(),
				"ip", ClientIP(r),
				"user_agent", r.UserAgent(),
			)
		})
	}
}
