package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tracker/internal/amqp"
	"tracker/internal/config"
	"tracker/internal/gamify"
	applog "tracker/internal/log"
	"tracker/internal/storage"
	"tracker/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	base := applog.New(applog.DefaultConfig())
	applog.SetDefault(base)
	logger := base.WithComponent(applog.ComponentWorker)

	logger.Info("Starting badge worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the badge worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	thresholds := gamify.Thresholds{
		DailyBudget:       cfg.DailyBudget,
		WeeklySavingsGoal: cfg.WeeklySavingsGoal,
		WeeklyFoodBudget:  cfg.WeeklyFoodBudget,
	}
	badgeWorker := worker.NewBadgeWorker(repo, thresholds)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeExpenseCreated(ctx, badgeWorker.HandleExpenseCreated)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Badge worker stopped")
}
