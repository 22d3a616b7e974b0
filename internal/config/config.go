// internal/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"thryv-wallet/pkg/db"

	"github.com/joho/godotenv"
)

// Config holds the full application configuration, loaded from the
// environment with an optional .env file for local development.
type Config struct {
	ServerPort string
	DB         db.Config

	// RedisAddr empty disables the read cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// AMQPURL empty disables event publishing.
	AMQPURL string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; real deployments set variables directly.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "thryv_wallet"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		AMQPURL:       getEnv("AMQP_URL", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
