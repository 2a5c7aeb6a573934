package config

import (
	"os"
	"strconv"
	"time"

	"medquiz/internal/pkg/db"
)

type Config struct {
	HTTPPort string

	Database db.Config

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration

	TelegramToken      string
	TelegramWebhookURL string
	WebAppURL          string

	PerPage int32
}

func Load() *Config {
	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		Database: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 3306),
			User:     getEnv("DB_USER", "medquiz"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "medquiz"),
		},

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", time.Hour),

		TelegramToken:      getEnv("TELEGRAM_TOKEN", ""),
		TelegramWebhookURL: getEnv("TELEGRAM_WEBHOOK_URL", ""),
		WebAppURL:          getEnv("WEBAPP_URL", "http://localhost:8080"),

		PerPage: int32(getEnvInt("PER_PAGE", 10)),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
