// Package config loads the alloc settings from the environment, and from a
// .env file when one is present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	Port         int
	LogLevel     string
	LogPretty    bool
	// CacheLimit bounds the chart sessions a server keeps, 0 for no limit.
	CacheLimit int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath: getEnv("ALLOC_DB", "alloc.db"),
		Port:         getEnvAsInt("ALLOC_PORT", 8080),
		LogLevel:     getEnv("ALLOC_LOG_LEVEL", "info"),
		LogPretty:    getEnvAsBool("ALLOC_LOG_PRETTY", false),
		CacheLimit:   getEnvAsInt("ALLOC_SESSION_LIMIT", 1000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("ALLOC_DB is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("ALLOC_PORT %d is not a valid port", c.Port)
	}
	if c.CacheLimit < 0 {
		return fmt.Errorf("ALLOC_SESSION_LIMIT must not be negative, got %d", c.CacheLimit)
	}
	return nil
}

// Addr is the address the server listens on.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
