package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/coltype/internal/config"
	"github.com/JonMunkholm/coltype/internal/core"
	"github.com/JonMunkholm/coltype/internal/history"
	"github.com/JonMunkholm/coltype/internal/ingest"
	"github.com/JonMunkholm/coltype/internal/logging"
	"github.com/JonMunkholm/coltype/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Overload lets a local .env win over inherited variables
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"history_driver", cfg.History.Driver,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"sample_size", cfg.Classify.SampleSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()
	store, err := history.Open(ctx, cfg.History)
	if err != nil {
		slog.Error("failed to open history store", "driver", cfg.History.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("closing history store", "error", err)
		}
	}()

	service := core.NewService(store, core.OptionsFromConfig(cfg))
	slog.Info("formats registered", "extensions", ingest.Extensions())

	server := web.NewServer(service, cfg)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	pruner, err := history.NewScheduler(store, cfg.History.PruneSchedule, cfg.History.Retention)
	if err != nil {
		slog.Error("failed to create history pruner", "error", err)
		os.Exit(1)
	}
	go pruner.Start(jobCtx)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.UploadLimiterStatus(); status.Active > 0 {
			slog.Info("waiting for uploads to complete", "active", status.Active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			} else {
				slog.Info("all uploads completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		return
	}
	<-shutdownDone
}
