// Command dashboard serves the wave-height dashboard over the summary
// artifact written by the ingest command.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/artifact"
	httpadapter "github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/adapter/http"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/config"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/dashboard"
	"github.com/ThomasTunick/NOAA-Wave-Heights-with-Dashboard/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store, err := artifact.NewStore(cfg.ArtifactPath)
	if err != nil {
		logger.Error("invalid artifact path", "error", err)
		os.Exit(1)
	}

	loader := dashboard.NewLoader(store, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, loader, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Warm the loader so a missing artifact shows up in the logs at startup.
	// Failures are retried on the next request.
	if _, err := loader.Summary(ctx); err != nil {
		logger.Warn("summary artifact not loaded yet", "path", cfg.ArtifactPath, "error", err)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
