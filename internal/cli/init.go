// Package cli provides the process bootstrap shared by the expensetracker
// commands: env file, logger, config, storage and graceful shutdown.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expensetracker/internal/auth"
	"expensetracker/internal/backend"
	"expensetracker/internal/config"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// SetupLogger builds the logger described by cfg and makes it the default.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger := cfg.Logger()
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig validates cfg, logging every problem found.
func LoadAndValidateConfig(cfg *config.Config, logger *log.Logger) error {
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		return err
	}
	return nil
}

// App is the wired application: persistence, state and credentials.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Repos   *storage.Repositories
	Tracker *services.Tracker
	Auth    *auth.Authenticator

	cleanup backend.CleanupFunc
}

// Bootstrap opens the configured backend and loads all persisted data.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bcfg.Type, err)
	}

	repos := storage.NewRepositories(res.KV)
	tracker := services.NewTracker(repos,
		services.WithLocation(cfg.Location()),
		services.WithLogger(logger),
	)
	if err := tracker.Load(ctx); err != nil {
		_ = res.Cleanup()
		return nil, fmt.Errorf("load data: %w", err)
	}

	a, err := auth.New(cfg.AuthUsername, cfg.AuthPassword, 0, repos.Auth, logger)
	if err != nil {
		_ = res.Cleanup()
		return nil, err
	}

	logger.Info("Application ready",
		log.FieldBackend, bcfg.Type.String(),
		log.FieldCount, len(tracker.Snapshot().Expenses))

	return &App{
		Config:  cfg,
		Logger:  logger,
		Repos:   repos,
		Tracker: tracker,
		Auth:    a,
		cleanup: res.Cleanup,
	}, nil
}

// Close releases the backend.
func (a *App) Close() error {
	if a.cleanup == nil {
		return nil
	}
	err := a.cleanup()
	a.cleanup = nil
	return err
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. When
// the signal arrives, shutdown runs with a context bounded by timeout.
func GracefulShutdown(parent context.Context, logger *log.Logger, timeout time.Duration, shutdown func(context.Context) error) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if shutdown != nil {
			if err := shutdown(shutdownCtx); err != nil {
				logger.Error("Shutdown error", log.FieldError, err)
			}
		}
		cancel()
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}
