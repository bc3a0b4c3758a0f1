// Package app is the catalog's application shell. It wires configuration,
// logging, the document store, seeding and the HTTP/gRPC servers together
// and owns their shutdown.
//
// Startup order:
//
//	load config → validate → logger → connect MongoDB (ping) → ensure indexes
//	→ seed if empty → build kernel → listen HTTP (+ gRPC health)
//
// On cancellation the health service reports NOT_SERVING, the HTTP server
// drains for up to 10s, gRPC stops gracefully, MongoDB disconnects and the
// log sinks are flushed.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/internal/kernel"
	"github.com/shashiranjanraj/catalog/internal/server"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/clock"
	"github.com/shashiranjanraj/catalog/pkg/database"
	catalogrpc "github.com/shashiranjanraj/catalog/pkg/grpc"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

const connectTimeout = 15 * time.Second

// Application holds the process-wide dependencies once booted.
type Application struct {
	Log  *slog.Logger
	DB   *database.DB
	Repo *repositories.ProductRepository

	closeLog func()
	rdb      *redis.Client
	store    middleware.Store
}

// Boot loads and validates configuration, builds the logger, connects to
// MongoDB and makes sure the product indexes exist.
func Boot(ctx context.Context) (*Application, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logOpts := logger.Options{
		Level:   config.LogLevel(),
		Env:     config.AppEnv(),
		Console: config.LogConsole(),
		File:    config.LogFile(),
		Dir:     config.LogDir(),
	}
	log, closeLog, err := logger.New(logOpts)
	if err != nil {
		return nil, err
	}
	a := &Application{Log: log, closeLog: closeLog}

	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := database.Connect(cctx, database.Options{
		URI:        config.MongoURI(),
		Database:   config.MongoDatabase(),
		Username:   config.MongoUsername(),
		Password:   config.MongoPassword(),
		AuthSource: config.MongoAuthSource,
	})
	if err != nil {
		log.Error("failed to connect to MongoDB", logger.Err(err))
		a.closeLog()
		return nil, err
	}
	a.DB = db
	log.Info("connected to MongoDB", "database", db.Name())

	if config.LogMongo() {
		logOpts.Mongo = db.Client
		logOpts.MongoDatabase = db.Name()
		withMongo, closeWithMongo, err := logger.New(logOpts)
		if err != nil {
			a.Close(context.Background())
			return nil, err
		}
		a.closeLog()
		a.Log, a.closeLog = withMongo, closeWithMongo
	}

	a.Repo = repositories.NewProductRepository(db.Collection(repositories.ProductCollection), clock.Real())
	if err := a.Repo.EnsureIndexes(cctx); err != nil {
		a.Log.Error("failed to create product indexes", logger.Err(err))
		a.Close(context.Background())
		return nil, err
	}

	return a, nil
}

// Seed runs every registered seeder. The product seeder only writes into an
// empty store.
func (a *Application) Seed(ctx context.Context) error {
	return seeders.RunAll(ctx, a.Repo, a.Log)
}

// Kernel builds the HTTP router over the booted store.
func (a *Application) Kernel(ctx context.Context) (*router.Router, error) {
	getAll := services.NewGetAllProducts(a.Repo)
	getByCode := services.NewGetProductByCode(a.Repo)

	gql, err := controllers.NewGraphQLController(getAll, getByCode)
	if err != nil {
		return nil, err
	}
	pc := controllers.NewProductController(getAll, getByCode)

	return kernel.New(kernel.Options{
		Logger:     a.Log,
		RateStore:  a.rateStore(ctx),
		TrustProxy: config.TrustProxy(),
		Routes: []func(*router.Router){
			func(r *router.Router) { routes.RegisterAPI(r, pc, gql) },
		},
	}), nil
}

// rateStore picks the counter store for the limiter and throttle. Redis is
// used when configured and reachable; otherwise counters stay in memory.
func (a *Application) rateStore(ctx context.Context) middleware.Store {
	if a.store != nil {
		return a.store
	}

	if config.RateLimitStore() == "redis" {
		rdb, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword())
		if err == nil {
			a.rdb = rdb
			a.store = middleware.NewRedisStore(rdb, "catalog:", middleware.RateLimitWindow)
			a.Log.Info("rate limiting with redis", "addr", config.RedisAddr())
			return a.store
		}
		a.Log.Warn("redis unavailable, rate limiting in memory", logger.Err(err))
	}

	a.store = middleware.NewMemoryStore(middleware.RateLimitWindow, nil)
	return a.store
}

// Serve seeds the store, starts the servers and blocks until ctx is
// cancelled or a server fails. Seeding completes before the port opens.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.Seed(ctx); err != nil {
		a.Log.Error("failed to seed products", logger.Err(err))
		return err
	}

	r, err := a.Kernel(ctx)
	if err != nil {
		return err
	}

	httpSrv := server.New(":"+config.AppPort(), r.Handler(), a.Log)
	errc, err := httpSrv.Start()
	if err != nil {
		return err
	}

	var grpcSrv *catalogrpc.Server
	if port := config.GRPCPort(); port != "" {
		grpcSrv = catalogrpc.New(a.Log)
		if err := grpcSrv.Start(":" + port); err != nil {
			a.shutdownHTTP(httpSrv)
			return err
		}
		grpcSrv.SetServing(true)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.Log.Info("shutdown signal received")
	case err, ok := <-errc:
		if ok {
			serveErr = err
			a.Log.Error("server error", logger.Err(err))
		}
	}

	if grpcSrv != nil {
		grpcSrv.SetServing(false)
	}
	a.shutdownHTTP(httpSrv)
	if grpcSrv != nil {
		grpcSrv.Stop()
	}
	return serveErr
}

func (a *Application) shutdownHTTP(s *server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		a.Log.Error("graceful shutdown failed", logger.Err(err))
	}
}

// Close releases the rate store, Redis, MongoDB and finally the log sinks.
func (a *Application) Close(ctx context.Context) {
	if c, ok := a.store.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.DB != nil {
		if err := a.DB.Close(ctx); err != nil {
			a.Log.Error("error closing MongoDB connection", logger.Err(err))
		} else {
			a.Log.Info("MongoDB connection closed")
		}
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}

// Run boots, serves until ctx is done and closes everything.
func Run(ctx context.Context) error {
	a, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	if err := a.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Routes lists the API routes without touching any backing service.
func Routes() []router.Route {
	getAll := services.NewGetAllProducts(nil)
	getByCode := services.NewGetProductByCode(nil)
	gql, _ := controllers.NewGraphQLController(getAll, getByCode)

	store := middleware.NewMemoryStore(middleware.RateLimitWindow, nil)
	defer store.Close()

	r := kernel.New(kernel.Options{
		Logger:    slog.Default(),
		RateStore: store,
		Routes: []func(*router.Router){
			func(r *router.Router) {
				routes.RegisterAPI(r, controllers.NewProductController(getAll, getByCode), gql)
			},
		},
	})
	return r.Routes()
}
