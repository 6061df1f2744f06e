package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"comeback/internal/amqp"
	"comeback/internal/config"
	applog "comeback/internal/log"
	"comeback/internal/remote"
	"comeback/internal/report"
	"comeback/internal/report/memory"
	"comeback/internal/report/sheets"
	"comeback/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.ComponentWorker, slog.LevelInfo)
	applog.SetDefault(logger)

	logger.Info("Starting comeback-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := remote.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Error("Failed to connect to document store", applog.FieldError, err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	// Without a spreadsheet the worker still drains the queue, mirroring
	// into memory; useful for local development.
	var mirror report.Mirror
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := sheets.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		mirror = sheetsClient
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		mirror = memory.New()
		logger.Info("Google Sheets disabled - mirroring to memory")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(store, mirror)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeLedgerSaved(gctx, mirrorWorker.HandleLedgerSaved)
	})

	// Periodic sweep for documents saved while the queue was unreachable.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.RecheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				count, err := mirrorWorker.Recheck(gctx, cfg.RecheckInterval)
				if err != nil {
					logger.Error("Mirror recheck failed", applog.FieldError, err)
					continue
				}
				logger.Info("Mirror recheck complete", "documents_mirrored", count)
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
