package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds service-mode configuration
type Config struct {
	DatabasePath  string // run-history database
	ArchiveDir    string // per-run path archives
	LogLevel      string
	Port          int
	DevMode       bool
	RetentionDays int  // prune runs/archives older than this
	RerunEnabled  bool // nightly re-run of the latest recorded scenario
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnvAsInt("PORT", 8001),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		DatabasePath:  getEnv("DATABASE_PATH", "./data/runs.db"),
		ArchiveDir:    getEnv("ARCHIVE_DIR", "./data/archives"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		RetentionDays: getEnvAsInt("RETENTION_DAYS", 90),
		RerunEnabled:  getEnvAsBool("RERUN_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.ArchiveDir == "" {
		return fmt.Errorf("ARCHIVE_DIR is required")
	}
	if c.RetentionDays <= 0 {
		return fmt.Errorf("RETENTION_DAYS must be positive")
	}
	return nil
}

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
