package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/adapter/cache/memory"
	rediscache "github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/adapter/cache/redis"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/adapter/repository/postgres"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/api"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/config"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/domain/authlog"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/metrics"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/reconciler"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/usecase/auditlog"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/pkg/db"
	zaplog "github.com/sukhrobfullstackdev/magic-dashboard-sub000/pkg/log"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/pkg/snowflake"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/sql/migrations"
)

const memoryCacheSize = 1000

// RunServer starts the HTTP server and background workers.
func RunServer() {
	app := fx.New(
		fx.Provide(
			// Config
			config.Load,

			// Domain Adapters (Bind Interfaces)
			fx.Annotate(
				postgres.NewRepository,
				fx.As(new(authlog.EventRepository)),
				fx.As(new(authlog.SettingsRepository)),
			),
			newStatsCache,
			newIDGenerator,

			// Use Cases
			auditlog.NewService,

			// Workers
			newStatsSource,
			reconciler.NewStatsRefresher,

			// API
			api.NewRouter,
		),
		db.Module,        // Database Module
		snowflake.Module, // Snowflake ID Module
		zaplog.Module,    // Logger Module
		fx.Invoke(metrics.Register),
		fx.Invoke(registerHooks),
	)

	app.Run()
}

// RunMigrations executes database migrations (up or down).
func RunMigrations(command string) error {
	if command == "" {
		command = "up"
	}

	cfg := config.Load()
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting database migration...", zap.String("command", command))

	d, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("load migration files: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, cfg.DSN())
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch command {
	case "up":
		err := m.Up()
		if err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migration up failed: %w", err)
		}
		if err == migrate.ErrNoChange {
			logger.Info("No changes to apply")
		} else {
			logger.Info("Migration up applied successfully")
		}
	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Info("Migration down applied successfully")
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}

	return nil
}

func registerHooks(lc fx.Lifecycle, cfg *config.Config, router *api.Router, refresher *reconciler.StatsRefresher, logger *zap.Logger) {
	var refresherCancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting HTTP server", zap.String("port", cfg.Port))

			refresherCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
			refresherCancel = cancel
			go refresher.Run(refresherCtx)

			go func() {
				if err := router.Run(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("Server failed to start", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down HTTP server gracefully...")

			if refresherCancel != nil {
				refresherCancel()
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			if err := router.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server forced to shutdown", zap.Error(err))
				return err
			}

			logger.Info("HTTP server stopped gracefully")
			return nil
		},
	})
}

// newStatsCache picks Redis when configured and a process-local cache otherwise.
func newStatsCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) auditlog.StatsCache {
	if cfg.RedisAddr == "" {
		logger.Info("stats cache using memory", zap.Duration("ttl", cfg.StatsCacheTTL))
		return memory.NewStatsCache(memoryCacheSize, cfg.StatsCacheTTL)
	}

	cache := rediscache.NewStatsCache(rediscache.NewClient(cfg), cfg.StatsCacheTTL)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return cache.Close()
		},
	})
	logger.Info("stats cache using redis", zap.String("addr", cfg.RedisAddr))
	return cache
}

func newIDGenerator(node *snowflake.Node) auditlog.IDGenerator {
	return node
}

func newStatsSource(svc *auditlog.Service) reconciler.StatsSource {
	return svc
}
