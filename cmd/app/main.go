package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymhub/internal/config"
	"gymhub/internal/credit"
	"gymhub/internal/db"
	"gymhub/internal/email"
	"gymhub/internal/logger"
	"gymhub/internal/realtime"
	"gymhub/internal/server"

	"github.com/redis/go-redis/v9"
)

// @title GymHub API
// @version 1.0
// @description API for gym appointment booking with per-service credits.
// @host localhost:8081
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting GymHub application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rdb redis.UniversalClient
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, running single-instance without email queue", "addr", cfg.RedisAddr, "error", err)
		client.Close()
	} else {
		rdb = client
		defer client.Close()
	}
	pingCancel()

	hub := realtime.NewHub(cfg.WSHeartbeat)
	publisher := realtime.NewPublisher(rdb, cfg.CapacityChannel, hub)
	if rdb != nil {
		relay := realtime.NewRelay(rdb, cfg.CapacityChannel, hub)
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.Error("capacity relay stopped", "error", err)
			}
		}()
	}

	var emailService *email.Service
	if rdb != nil {
		emailService = email.New(rdb, email.Config{
			From:     cfg.EmailFrom,
			FromName: cfg.EmailFromName,
			SMTPHost: cfg.SMTPHost,
			SMTPPort: cfg.SMTPPort,
			SMTPUser: cfg.SMTPUser,
			SMTPPass: cfg.SMTPPass,
		})
		go emailService.Start(ctx)
		logger.Info("Email service initialized")
	}

	payments := credit.NewLocalProvider()
	if cfg.StripeSecretKey != "" {
		payments = credit.NewStripeProvider(cfg.StripeSecretKey)
		logger.Info("Stripe payments enabled")
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, using local payment intents")
	}

	srv := server.New(server.Deps{
		DB:        database,
		Config:    cfg,
		Email:     emailService,
		Hub:       hub,
		Publisher: publisher,
		Payments:  payments,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		serverErr <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err)
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server exited")
}
