package config

import (
	"os"
	"time"
)

type Config struct {
	Port string

	DefaultCurrency string

	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string

	RabbitMQURL      string
	RabbitMQExchange string

	// ReconcileAt is the local time of day the balance audit runs, "HH:MM".
	ReconcileAt string

	BudgetCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "EUR"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "centime.events"),

		ReconcileAt: getEnv("RECONCILE_AT", "03:00"),

		BudgetCacheTTL: getEnvDuration("BUDGET_CACHE_TTL", time.Minute),
	}
}

func getEnv(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}

	return defaultValue
}
