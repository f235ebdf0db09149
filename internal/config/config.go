package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tracker/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP (empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Advice service
	GeminiAPIKey  string
	GeminiModel   string
	AdviceTimeout time.Duration

	// Login (empty client ID disables session auth)
	GoogleClientID string

	// Gamification thresholds
	DailyBudget       core.Money
	WeeklySavingsGoal core.Money
	WeeklyFoodBudget  core.Money
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tracker.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tracker"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AdviceTimeout: getEnvDuration("ADVICE_TIMEOUT", 30*time.Second),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		DailyBudget:       getEnvMoney("DAILY_BUDGET", "50.00"),
		WeeklySavingsGoal: getEnvMoney("WEEKLY_SAVINGS_GOAL", "50.00"),
		WeeklyFoodBudget:  getEnvMoney("WEEKLY_FOOD_BUDGET", "75.00"),
	}
}

// Validate validates the configuration and returns an error if invalid.
// The advice service key is required: a missing credential fails here at
// startup instead of failing per-request.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GeminiAPIKey == "" {
		errors = append(errors, "GEMINI_API_KEY is required for the advice service")
	}
	if c.GeminiModel == "" {
		errors = append(errors, "Gemini model name cannot be empty")
	}
	if c.AdviceTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid advice timeout %v: must be at least 1 second", c.AdviceTimeout))
	} else if c.AdviceTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid advice timeout %v: must be at most 5 minutes", c.AdviceTimeout))
	}

	if c.DailyBudget.Cents <= 0 {
		errors = append(errors, "daily budget must be a positive amount")
	}
	if c.WeeklySavingsGoal.Cents <= 0 {
		errors = append(errors, "weekly savings goal must be a positive amount")
	}
	if c.WeeklyFoodBudget.Cents <= 0 {
		errors = append(errors, "weekly food budget must be a positive amount")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvMoney parses a decimal currency amount, falling back to the default
// when the variable is unset or malformed. Zero thresholds are rejected later
// by Validate.
func getEnvMoney(key, defaultValue string) core.Money {
	if value := os.Getenv(key); value != "" {
		if cents, err := core.ParseDecimalToCents(value); err == nil {
			return core.Money{Cents: cents}
		}
	}
	cents, err := core.ParseDecimalToCents(defaultValue)
	if err != nil {
		return core.Money{}
	}
	return core.Money{Cents: cents}
}
