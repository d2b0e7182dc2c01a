// Package config provides configuration for the vacuum world server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Results database
	DatabaseURL string

	// Session eviction
	SweepInterval time.Duration
	SessionTTL    time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 5000),
		DatabaseURL:   getEnv("DATABASE_URL", "file:vacuumworld.db?cache=shared&mode=rwc"),
		SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_MS", 300000)) * time.Millisecond,
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_MS", 3600000)) * time.Millisecond,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
