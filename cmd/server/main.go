package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"hirehub/internal/cache"
	"hirehub/internal/config"
	"hirehub/internal/database"
	"hirehub/internal/events"
	"hirehub/internal/handlers/api"
	"hirehub/internal/middleware"
	"hirehub/internal/repositories"
	"hirehub/internal/response"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			newDatabase,
			newCache,
			newRepositories,
			newResponseBuilder,
			newRateLimiter,
			newEventBus,
			newHandler,
			newServer,
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Invoke(func(*http.Server) {}),
	)

	app.Run()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	switch cfg.Server.Environment {
	case "production", "staging":
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// newDatabase opens the store and runs the bootstrapper before anything
// else touches it
func newDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*database.Manager, error) {
	provider := database.NewProvider(&cfg.Database, logger)

	ctx := context.Background()
	manager, err := provider.Get(ctx)
	if err != nil {
		return nil, err
	}

	result, err := database.NewBootstrapper(manager, cfg.Admin, logger).Initialize(ctx)
	if err != nil {
		_ = provider.Close()
		return nil, err
	}
	logger.Info("Database ready",
		zap.String("path", manager.Path()),
		zap.Bool("admin_seeded", result.AdminSeeded),
	)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			metrics := manager.Metrics()
			logger.Info("Final database metrics",
				zap.Int64("total_queries", metrics.QueryCount),
				zap.Int64("total_errors", metrics.ErrorCount),
				zap.Int64("slow_queries", metrics.SlowQueryCount),
				zap.Duration("avg_query_duration", metrics.AvgQueryDuration),
			)
			return provider.Close()
		},
	})
	return manager, nil
}

func newCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	c, err := cache.New(cfg.Cache, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return c.Close() },
	})
	return c, nil
}

func newRepositories(db *database.Manager, c cache.Cache, cfg *config.Config, logger *zap.Logger) (*repositories.Collection, error) {
	return repositories.NewCollection(db, c, logger, &repositories.RepositoryConfig{
		StatsTTL:   cfg.Cache.TTL,
		BCryptCost: cfg.Admin.BCryptCost,
	})
}

func newResponseBuilder(cfg *config.Config, logger *zap.Logger) *response.Builder {
	rc := response.DefaultConfig()
	rc.PrettyJSON = !cfg.IsProduction()
	rc.MaskInternalErrors = cfg.IsProduction()
	return response.NewBuilder(rc, logger)
}

func newRateLimiter(c cache.Cache, cfg *config.Config, builder *response.Builder, logger *zap.Logger) *middleware.RateLimiter {
	return middleware.NewRateLimiter(c, &middleware.RateLimiterConfig{
		Enabled: cfg.RateLimit.Enabled,
		Limit:   cfg.RateLimit.Limit,
		Window:  cfg.RateLimit.Window,
	}, builder, logger)
}

// newEventBus starts the in-process bus that receives public submission
// events; the audit log is its only subscriber for now
func newEventBus(lc fx.Lifecycle, logger *zap.Logger) (events.EventBus, error) {
	bus := events.NewInMemoryEventBus(events.DefaultEventBusConfig(), logger.Named("events"))
	if err := bus.Subscribe(events.AllEvents, events.NewAuditLogHandler(logger.Named("audit"))); err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: bus.Start,
		OnStop: func(ctx context.Context) error {
			stats := bus.Stats()
			logger.Info("Event bus totals",
				zap.Int64("published", stats.EventsPublished),
				zap.Int64("processed", stats.EventsProcessed),
				zap.Int64("failed", stats.EventsFailed),
			)
			return bus.Stop(ctx)
		},
	})
	return bus, nil
}

func newHandler(repos *repositories.Collection, builder *response.Builder, limiter *middleware.RateLimiter, bus events.EventBus, logger *zap.Logger) *api.Handler {
	return api.NewHandler(repos, builder, limiter, bus, logger)
}

func newServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, handler *api.Handler, logger *zap.Logger) *http.Server {
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler.Routes(middleware.DefaultLoggingConfig()),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
			}
			logger.Info("Starting HTTP server",
				zap.String("address", server.Addr),
				zap.String("environment", cfg.Server.Environment),
				zap.Int("pid", os.Getpid()),
			)
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.GracefulTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
	return server
}
