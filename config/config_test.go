package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.Equal(t, "centime.events", cfg.RabbitMQExchange)
	assert.Equal(t, "03:00", cfg.ReconcileAt)
	assert.Equal(t, time.Minute, cfg.BudgetCacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DEFAULT_CURRENCY", "USD")
	t.Setenv("BUDGET_CACHE_TTL", "30s")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, 30*time.Second, cfg.BudgetCacheTTL)
}
