package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseFile   string        // Path to the SQLite database file (default: ./nimbuzyn.db)
	PepperFile     string        // Path to the password hashing pepper file (default: ./pepper)
	SessionKeyFile string        // Path to the session signing key file; empty means ephemeral sessions
	SessionTTL     time.Duration // Session token lifetime (default: 30 days)
	Issuer         string        // Issuer claim on session tokens and the TOTP label

	Env                 string        // Environment (dev, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		DatabaseFile:        getEnvOrDefault("NIMBUZYN_DATABASE_FILE", "nimbuzyn.db"),
		PepperFile:          getEnvOrDefault("NIMBUZYN_PEPPER_FILE", "pepper"),
		SessionKeyFile:      os.Getenv("NIMBUZYN_SESSION_KEY_FILE"), // Optional: empty = ephemeral
		SessionTTL:          getEnvDurationOrDefault("NIMBUZYN_SESSION_TTL", 0),
		Issuer:              getEnvOrDefault("NIMBUZYN_ISSUER", "nimbuzyn"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
