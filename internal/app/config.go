package app

import (
	"os"
	"strconv"
	"time"

	"github.com/openfieldlab/fieldlab/pkg/jwtx"
)

type Config struct {
	TokenSecret string        // Required: HMAC secret for signing tokens
	Issuer      string        // Optional: issuer claim for tokens (default: fieldlab)
	TokenTTL    time.Duration // Optional: access token lifetime (default: jwtx.DefaultTokenTTL)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./fieldlab.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		TokenSecret:         os.Getenv("FIELDLAB_TOKEN_SECRET"),
		Issuer:              getEnvOrDefault("FIELDLAB_ISSUER", "fieldlab"),
		TokenTTL:            getEnvDurationOrDefault("FIELDLAB_TOKEN_TTL", jwtx.DefaultTokenTTL),
		DatabaseFile:        getEnvOrDefault("FIELDLAB_DATABASE_FILE", "fieldlab.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Duration syntax first ("1h", "30m", "90s"), then bare seconds.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
