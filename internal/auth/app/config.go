package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/tabkeep/authd/pkg/jwtx"
)

type Config struct {
	Issuer    string // Token issuer and TOTP issuer label (default: authd)
	JWTSecret string // Required: secret for signing bearer tokens

	MongoURI string // MongoDB connection string (default: mongodb://localhost:27017)
	MongoDB  string // Database name (default: authd)

	TokenTTL            time.Duration // Bearer token lifetime (default: 7 days)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// A .env file is a development convenience; absence is not an error.
	_ = godotenv.Load()

	return Config{
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "authd"),
		JWTSecret:           os.Getenv("AUTH_JWT_SECRET"),
		MongoURI:            getEnvOrDefault("AUTH_MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnvOrDefault("AUTH_MONGO_DB", "authd"),
		TokenTTL:            getEnvDurationOrDefault("AUTH_TOKEN_TTL", jwtx.DefaultTokenTTL),
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
