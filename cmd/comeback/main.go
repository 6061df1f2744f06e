package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"comeback/internal/amqp"
	"comeback/internal/config"
	apphttp "comeback/internal/http"
	"comeback/internal/identity"
	applog "comeback/internal/log"
	"comeback/internal/remote"
	"comeback/internal/session"
	"comeback/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.ComponentApp, slog.LevelInfo)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	// One Mongo client serves both the tracker documents and the accounts.
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err == nil {
		err = client.Ping(connectCtx, nil)
	}
	connectCancel()
	if err != nil {
		logger.Error("Failed to connect to document store", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)

	remoteStore := remote.NewMongoStoreFromDatabase(db)
	users, err := identity.NewMongoUsers(ctx, db)
	if err != nil {
		logger.Error("Failed to initialize user store", applog.FieldError, err)
		os.Exit(1)
	}

	cache, err := storage.NewCache(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize local cache", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer cache.Close()

	// AMQP is optional: without it saves still work, reports just are not
	// mirrored.
	var publisher session.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	var mailer identity.Mailer
	if cfg.SMTPHost != "" {
		mailer = identity.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SenderEmail)
		logger.Info("SMTP mail enabled", "host", cfg.SMTPHost)
	} else {
		logger.Info("SMTP disabled - password reset unavailable")
	}

	ids := identity.NewService(users, mailer, cfg.JWTSecret)
	mgr := session.NewManager(cache, remoteStore, publisher, cfg.DebounceInterval)

	srv := apphttp.NewServer(":"+cfg.Port, ids, mgr, logger)
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	shutdownDone := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		close(shutdownDone)
	}()

	logger.Info("Starting comeback server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-shutdownDone
	logger.Info("Server stopped gracefully")
}
