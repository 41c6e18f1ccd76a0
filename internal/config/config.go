package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultAPIBaseURL is the production RoadWatch API root.
const DefaultAPIBaseURL = "https://noor-samsung.onrender.com/api"

// Config holds all application configuration.
type Config struct {
	API      APIConfig
	Database DatabaseConfig
	Log      LogConfig
}

// APIConfig contains remote API settings.
type APIConfig struct {
	BaseURL        string // API root, no trailing slash
	TimeoutSeconds int    // per-request HTTP timeout
}

// DatabaseConfig contains local storage settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string // debug | info | warn | error
}

// Load loads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	timeout, err := getEnvInt("HTTP_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", timeout)
	}
	cfg := &Config{
		API: APIConfig{
			BaseURL:        getEnv("ROADWATCH_API_URL", DefaultAPIBaseURL),
			TimeoutSeconds: timeout,
		},
		Database: DatabaseConfig{
			Path: getEnv("ROADWATCH_DB_PATH", "roadwatch.db"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("ROADWATCH_API_URL must not be empty")
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	}
	return defaultVal, nil
}
