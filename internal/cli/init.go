// Package cli provides common CLI initialization utilities.
// It consolidates the bootstrap shared by cmd/pontos and cmd/pontos-worker.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pontos/internal/balance"
	"pontos/internal/config"
	applog "pontos/internal/log"
	"pontos/internal/ports"
	"pontos/internal/storage"
	"pontos/internal/store/memory"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from cfg and installs it as the slog
// default. Unusable level or format settings fall back to info/text; Validate
// reports them.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	logger, err := applog.NewFromConfig(cfg.LogLevel, cfg.LogFormat, component)
	if err != nil {
		logger = applog.New(applog.Config{Level: slog.LevelInfo, Component: component, Output: os.Stdout})
	}
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// It returns a logger configured from it, or exits the process on validation failure.
func LoadAndValidateConfig(component string) (*config.Config, *applog.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg, component)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenStore opens the configured data backend.
func OpenStore(logger *applog.Logger, cfg *config.Config) (ports.Store, error) {
	logger = logger.WithComponent(applog.ComponentStorage)
	switch cfg.DataBackend {
	case "memory":
		store, err := memory.NewFromFiles(cfg.SeedDir)
		if err != nil {
			return nil, fmt.Errorf("seed in-memory store from %s: %w", cfg.SeedDir, err)
		}
		logger.Info("Using in-memory store", applog.FieldBackend, "memory", "seed_dir", cfg.SeedDir)
		return store, nil
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository at %s: %w", cfg.SQLiteDBPath, err)
		}
		logger.Info("Using SQLite store", applog.FieldBackend, "sqlite", "path", cfg.SQLiteDBPath)
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

// NewCalculator builds a balance calculator for the configured zone. Exclusion
// warnings go to logger under the ledger component.
func NewCalculator(cfg *config.Config, logger *applog.Logger) (*balance.Calculator, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return balance.NewCalculator(
		balance.WithLocation(loc),
		balance.WithLogger(logger.WithComponent(applog.ComponentLedger).Slog()),
	), nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when cleanup has finished or timed out.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown, "signal", sig.String())
		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached", "timeout", timeout)
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
