package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"call-productivity/filter"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Locale      string
	Timezone    string
	Location    *time.Location
	Sheet       string
	LogLevel    string
	LogFile     string
	MetricsAddr string
	PushURL     string
}

// Load loads configuration from a .env file and environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Locale:      strings.ToLower(getEnv("CALLPROD_LOCALE", filter.DefaultLocale)),
		Timezone:    getEnv("CALLPROD_TIMEZONE", "UTC"),
		Sheet:       getEnv("CALLPROD_SHEET", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
		MetricsAddr: getEnv("METRICS_ADDR", ""),
		PushURL:     getEnv("PUSH_URL", ""),
	}

	if err := filter.ValidateLocale(cfg.Locale); err != nil {
		return nil, fmt.Errorf("invalid CALLPROD_LOCALE: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CALLPROD_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
