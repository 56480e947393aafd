package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/nri-explorer/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/nri-explorer/internal/adapter/kafka"
	"github.com/couchcryptid/nri-explorer/internal/config"
	"github.com/couchcryptid/nri-explorer/internal/dataset"
	"github.com/couchcryptid/nri-explorer/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Refresh notifications are feature-flagged via KAFKA_ENABLED.
	var notifier *kafkaadapter.Notifier
	var loaderNotifier dataset.Notifier
	if cfg.KafkaEnabled {
		notifier = kafkaadapter.NewNotifier(cfg, logger)
		loaderNotifier = notifier
		logger.Info("refresh notifications enabled", "topic", cfg.KafkaNotifyTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("refresh notifications disabled")
	}

	store := dataset.NewStore()
	fetcher := dataset.NewFetcher(cfg.DatasetURL, cfg.FetchTimeout, logger)
	loader := dataset.NewLoader(fetcher, store, cfg.CacheDir, cfg.RefreshInterval, loaderNotifier, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, store, cfg.ExportFilename, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial load: disk cache first, then one network attempt. A failure
	// leaves the service running but not ready; the API serves the
	// empty-state error until a refresh succeeds.
	if hit, err := loader.LoadFromCache(ctx); err != nil {
		logger.Warn("dataset cache unreadable", "error", err)
	} else if !hit {
		if err := loader.LoadOnce(ctx); err != nil {
			logger.Error("initial dataset load failed", "error", err)
		}
	}

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the optional refresh loop.
	go func() {
		if err := loader.Run(ctx); err != nil {
			logger.Error("dataset refresh loop error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if notifier != nil {
		if err := notifier.Close(); err != nil {
			logger.Error("kafka notifier close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
