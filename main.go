package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logr.Sync()

	// --- Database ---
	db, err := repositories.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.LogLevel == "debug")
	if err != nil {
		logr.Error("Failed to connect to database", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
		os.Exit(1)
	}
	if err := repositories.Migrate(db); err != nil {
		logr.Error("Failed to migrate database", zap.Error(err))
		os.Exit(1)
	}

	// --- Change events (optional) ---
	var events services.EventPublisher
	if cfg.EventsEnabled() {
		eventLog := logr.With(zap.String("component", "events"))
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.EventsExchange,
			Queue:    cfg.EventsQueue,
		}, eventLog)
		if err != nil {
			eventLog.Error("Failed to initialize RabbitMQ client", zap.Error(err))
			os.Exit(1)
		}
		defer mqClient.Close()
		events = mqClient

		// Audit trail of committed changes.
		audit := func(msg amqp.Delivery) error {
			eventLog.Info("Catalog event", zap.String("routing_key", msg.RoutingKey), zap.ByteString("body", msg.Body))
			return nil
		}
		if err := mqClient.ConsumeEvents(audit); err != nil {
			eventLog.Warn("Failed to start RabbitMQ consumer", zap.Error(err))
		}
	}

	application := app.New(app.Options{
		DB:        db,
		Events:    events,
		Log:       logr,
		AccessLog: os.Stdout,
		StaticDir: cfg.StaticDir,
	})

	// --- Start HTTP Server ---
	logr.Info("Starting server", zap.String("addr", cfg.AppPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := application.Listen(cfg.AppPort); err != nil {
			logr.Error("Server failed to start", zap.Error(err))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logr.Info("Shutting down server...")

	if err := application.Shutdown(); err != nil {
		logr.Error("Error during Fiber shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logr.Info("Server gracefully stopped")
}
