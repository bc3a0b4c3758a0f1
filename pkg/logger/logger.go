// Package logger builds the application's structured logger on log/slog.
//
// Records fan out to any combination of sinks chosen by configuration:
// console, rotated JSON files (combined + error-only) and MongoDB. Handlers
// and services receive the *slog.Logger explicitly; request handlers use
// WithCtx to pick up the request-scoped logger tagged with request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product fetched", "code", code)
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	combinedFile = "combined.log"
	errorFile    = "error.log"
	maxFileMB    = 5
	maxBackups   = 5
)

// L is the process-wide fallback logger. New replaces it.
var L = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Options selects the sinks and level of a logger.
type Options struct {
	Level   string // debug | info | warn | error
	Env     string // "production"/"prod" switches the console to JSON
	Console bool
	File    bool
	Dir     string

	// Mongo, when set, receives every record asynchronously.
	Mongo           *mongo.Client
	MongoDatabase   string
	MongoCollection string
}

// New builds a logger from opts, installs it as L and slog's default, and
// returns a close function that flushes and releases every sink.
func New(opts Options) (*slog.Logger, func(), error) {
	level := ParseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: level}

	var (
		handlers []slog.Handler
		closers  []io.Closer
	)

	if opts.Console {
		switch opts.Env {
		case "production", "prod":
			handlers = append(handlers, slog.NewJSONHandler(os.Stdout, hopts))
		default:
			handlers = append(handlers, slog.NewTextHandler(os.Stdout, hopts))
		}
	}

	if opts.File {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("logger: create log dir: %w", err)
		}
		combined := rotating(filepath.Join(opts.Dir, combinedFile))
		errs := rotating(filepath.Join(opts.Dir, errorFile))
		closers = append(closers, combined, errs)

		handlers = append(handlers,
			slog.NewJSONHandler(combined, hopts),
			slog.NewJSONHandler(errs, &slog.HandlerOptions{Level: slog.LevelError}),
		)
	}

	if opts.Mongo != nil {
		collection := opts.MongoCollection
		if collection == "" {
			collection = "logs"
		}
		mh := NewMongoHandler(opts.Mongo.Database(opts.MongoDatabase).Collection(collection), level)
		handlers = append(handlers, mh)
		closers = append(closers, mh)
	}

	var h slog.Handler
	switch len(handlers) {
	case 0:
		h = slog.NewTextHandler(io.Discard, hopts)
	case 1:
		h = handlers[0]
	default:
		h = NewMultiHandler(handlers...)
	}

	L = slog.New(h)
	slog.SetDefault(L)

	closeFn := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	return L, closeFn, nil
}

func rotating(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxFileMB,
		MaxBackups: maxBackups,
	}
}

// ParseLevel maps a config string to a slog level; unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log into ctx. Called by the request logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Err is the attribute every error is logged under.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("")}
	}
	return slog.String("error", err.Error())
}
