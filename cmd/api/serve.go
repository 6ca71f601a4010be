package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/tellerdesk/support-portal/internal/api/http"
	"github.com/tellerdesk/support-portal/internal/auth"
	"github.com/tellerdesk/support-portal/internal/config"
	"github.com/tellerdesk/support-portal/internal/observability"
	"github.com/tellerdesk/support-portal/internal/persistence"
	"github.com/tellerdesk/support-portal/internal/repository"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := observability.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	sentryEnabled := initSentry(cfg, logger)
	if sentryEnabled {
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	deps := httptransport.ServerDependencies{
		Config:        cfg,
		Logger:        logger,
		Metrics:       observability.NewMetrics(),
		Postgres:      pg,
		Redis:         redis,
		SentryEnabled: sentryEnabled,
	}
	if pool := pg.PoolHandle(); pool != nil {
		deps.UserRepo = repository.NewUserRepository(pool)
		deps.TicketRepo = repository.NewTicketRepository(pool)
		deps.SettingsRepo = repository.NewSettingsRepository(pool)
	} else {
		store := repository.NewMemoryStore()
		deps.UserRepo = store.Users()
		deps.TicketRepo = store.Tickets()
		deps.SettingsRepo = store.Settings()
	}
	if redis.Enabled() {
		deps.Revocations = auth.NewRedisRevocationStore(redis.Client)
	} else {
		deps.Revocations = auth.NewMemoryRevocationStore()
	}

	app := httptransport.NewServer(deps)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func initSentry(cfg *config.Config, logger *zap.Logger) bool {
	if cfg.Sentry.DSN == "" {
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		EnableTracing:    cfg.Sentry.TracesSampleRate > 0,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Environment:      cfg.App.Env,
		Release:          cfg.App.Version,
	}); err != nil {
		logger.Error("sentry init failed", zap.Error(err))
		return false
	}
	return true
}
