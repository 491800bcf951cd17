// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all tunables for the Partela server.
type Config struct {
	Port        int
	Environment string
	CORSOrigins []string

	// Table defaults.
	RestaurantName    string
	MaxGuestsPerTable int
	TaxRate           float64
	ServiceFeeRate    float64

	// Timer-driven behaviour. All three are table- or guest-scoped
	// deferred callbacks, never blocking waits.
	RevoteDelay         time.Duration
	PaymentConfirmDelay time.Duration
	EmptyTableGrace     time.Duration
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using system environment")
	}

	return &Config{
		Port:        getEnvInt("PORT", 3000),
		Environment: getEnv("NODE_ENV", "development"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:4200"), ","),

		RestaurantName:    getEnv("RESTAURANT_NAME", "UPTOWN"),
		MaxGuestsPerTable: getEnvInt("MAX_GUESTS_PER_TABLE", 4),
		TaxRate:           getEnvFloat("DEFAULT_TAX_RATE", 0.00),
		ServiceFeeRate:    getEnvFloat("DEFAULT_SERVICE_FEE_RATE", 0.00),

		RevoteDelay:         getEnvDuration("REVOTE_DELAY", 3*time.Second),
		PaymentConfirmDelay: getEnvDuration("PAYMENT_CONFIRM_DELAY", 500*time.Millisecond),
		EmptyTableGrace:     getEnvDuration("EMPTY_TABLE_GRACE", time.Minute),
	}
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		slog.Warn("Invalid integer in environment, using fallback", "key", key, "value", value)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		slog.Warn("Invalid float in environment, using fallback", "key", key, "value", value)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("Invalid duration in environment, using fallback", "key", key, "value", value)
	}
	return fallback
}
