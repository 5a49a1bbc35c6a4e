package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gudang/internal/config"
	"gudang/internal/database"
	"gudang/internal/jobs"
	"gudang/internal/logger"
	"gudang/internal/seed"
	"gudang/internal/server"
	"gudang/internal/services"
	"gudang/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg.LogLevel)
	defer func() { _ = logg.Sync() }()

	// --- Database ---
	db, err := database.Open(database.Options{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		Log:             logg,
	})
	if err != nil {
		logg.Fatalw("failed to open database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logg.Warnw("failed to close database", "error", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		logg.Fatalw("failed to migrate database", "error", err)
	}

	if cfg.SeedDemoData {
		if _, err := seed.Run(context.Background(), db, logg); err != nil {
			logg.Fatalw("failed to seed demo data", "error", err)
		}
	}

	// --- RabbitMQ (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:       cfg.RabbitMQURL,
			Exchanges: []string{services.InventoryExchange},
			Log:       logg,
		})
		if err != nil {
			logg.Fatalw("failed to initialize RabbitMQ client", "error", err)
		}
		defer mqClient.Close()
		events = mqClient

		err = mqClient.Consume(jobs.InventoryAuditQueue, services.InventoryExchange, jobs.InventoryAuditBinding, jobs.InventoryAuditHandler(logg))
		if err != nil {
			logg.Fatalw("failed to start inventory audit consumer", "error", err)
		}
	} else {
		logg.Info("RABBITMQ_URL not set, inventory events disabled")
	}

	srv := server.New(cfg, db, events, logg)

	// --- Background jobs ---
	sweeper, err := jobs.NewSessionSweeper(srv.AuthService, cfg.SessionSweepSchedule, logg)
	if err != nil {
		logg.Fatalw("failed to schedule session sweeper", "error", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logg.Infow("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.App.Listen(cfg.Port); err != nil {
			logg.Fatalw("server failed to start", "error", err)
		}
	}()

	<-quit
	logg.Info("shutting down server")
	if err := srv.App.Shutdown(); err != nil {
		logg.Errorw("error during fiber shutdown", "error", err)
	}
	logg.Info("server gracefully stopped")
}
