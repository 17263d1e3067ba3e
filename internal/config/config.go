package config

import (
	"os"
	"strconv"
	"time"

	"dupfinder/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Compare  CompareConfig
	Database DatabaseConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// UploadConfig holds file upload limits and session lifetime
type UploadConfig struct {
	MaxUploadMB int64
	SessionTTL  time.Duration
}

// CompareConfig holds comparison defaults
type CompareConfig struct {
	DefaultChunkSize int
	PreviewRows      int
}

// DatabaseConfig holds the optional run-audit database connection.
// Comparison runs are only recorded when a URL is configured.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   loadServerConfig(),
		Upload:   loadUploadConfig(),
		Compare:  loadCompareConfig(),
		Database: loadDatabaseConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		APIPort: getEnvOrDefault("API_PORT", "8090"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		MaxUploadMB: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 50)),
		SessionTTL:  getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
	}
}

func loadCompareConfig() CompareConfig {
	return CompareConfig{
		DefaultChunkSize: getEnvIntOrDefault("DEFAULT_CHUNK_SIZE", 500),
		PreviewRows:      getEnvIntOrDefault("PREVIEW_ROWS", 50),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL: getEnvOrDefault("DATABASE_URL", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Upload.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Compare.DefaultChunkSize < 1 {
		return errors.ConfigInvalid("DEFAULT_CHUNK_SIZE must be at least 1")
	}
	if config.Compare.PreviewRows < 1 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
