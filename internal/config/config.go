// Package config manages application configuration
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port            string
	Environment     string // "development" or "production"
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Database
	DatabaseURL string

	// Logging
	LogLevel  string
	LogPretty bool

	// Display
	Currency      string
	QuoteCacheTTL time.Duration
}

// Load reads configuration from a .env file, if present, and environment
// variables with sensible defaults
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("FINLEARN_PORT", "8080"),
		Environment:     getEnv("FINLEARN_ENV", "development"),
		ShutdownTimeout: getDurationEnv("FINLEARN_SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:     getListEnv("FINLEARN_CORS_ORIGINS", []string{"*"}),
		DatabaseURL:     getEnv("FINLEARN_DATABASE_URL", "finlearn.db"),
		LogLevel:        getEnv("FINLEARN_LOG_LEVEL", "info"),
		Currency:        strings.ToUpper(getEnv("FINLEARN_CURRENCY", "EUR")),
		QuoteCacheTTL:   getDurationEnv("FINLEARN_QUOTE_CACHE_TTL", 5*time.Minute),
	}

	// Production always logs JSON
	cfg.LogPretty = getBoolEnv("FINLEARN_LOG_PRETTY", cfg.IsDevelopment()) && !cfg.IsProduction()
	return cfg
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
