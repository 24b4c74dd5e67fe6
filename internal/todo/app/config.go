package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer    string        // Optional: issuer claim for tokens (default: tasknest)
	JWTSecret string        // Required: shared secret for HS256 token signing
	TokenTTL  time.Duration // Optional: access token lifetime (default: 24h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./tasknest.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	BruteforceWindow      time.Duration // Optional: failed-signin lockout window (default: 5m)
	BruteforceMaxFailures int           // Optional: failures inside the window before lockout (default: 5)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:    getEnvOrDefault("TODO_ISSUER", "tasknest"),
		JWTSecret: os.Getenv("TODO_JWT_SECRET"),
		TokenTTL:  getEnvDurationOrDefault("TODO_TOKEN_TTL", 24*time.Hour),

		DatabaseFile: getEnvOrDefault("TODO_DATABASE_FILE", "tasknest.db"),
		PepperFile:   getEnvOrDefault("TODO_PEPPER_FILE", "pepper"),

		BruteforceWindow:      getEnvDurationOrDefault("BRUTEFORCE_WINDOW", 5*time.Minute),
		BruteforceMaxFailures: getEnvIntOrDefault("BRUTEFORCE_MAX_FAILURES", 5),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
