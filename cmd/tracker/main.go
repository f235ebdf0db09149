package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tracker/internal/advice"
	"tracker/internal/amqp"
	"tracker/internal/auth"
	"tracker/internal/config"
	"tracker/internal/gamify"
	apphttp "tracker/internal/http"
	applog "tracker/internal/log"
	"tracker/internal/services"
	"tracker/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	// Event publishing is optional; without a broker URL expenses are only
	// stored locally.
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		events = amqpClient
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP publishing disabled - no AMQP_URL provided")
	}

	expenses := services.NewExpenseService(repo, events)
	defer expenses.Close()

	gemini, err := advice.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("Failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}
	advisor := advice.New(gemini, cfg.AdviceTimeout)

	// Session auth is optional; without a client ID every endpoint is open.
	var verifier auth.TokenVerifier
	if cfg.GoogleClientID != "" {
		v, err := auth.NewGoogleVerifier(cfg.GoogleClientID)
		if err != nil {
			logger.Error("Failed to initialize Google verifier", "error", err)
			os.Exit(1)
		}
		verifier = v
		logger.Info("Google sign-in enabled")
	} else {
		logger.Info("Google sign-in disabled - no GOOGLE_CLIENT_ID provided")
	}

	thresholds := gamify.Thresholds{
		DailyBudget:       cfg.DailyBudget,
		WeeklySavingsGoal: cfg.WeeklySavingsGoal,
		WeeklyFoodBudget:  cfg.WeeklyFoodBudget,
	}

	srv := apphttp.NewServer(":"+cfg.Port, expenses, advisor, thresholds, verifier)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting tracker server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
