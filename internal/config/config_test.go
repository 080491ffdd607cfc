package config

import (
	"testing"
	"time"

	"expense_portal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "SECRET_KEY", "ADMIN_USER", "ADMIN_PASS",
		"APP_NAME", "VILLAGE_NAME", "APP_ENV", "SESSION_TTL", "AMOUNT_POLICY", "REDIS_ADDR", "SUMMARY_CACHE_TTL"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig()

	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, "sqlite://grampanchayat_expense.db", cfg.DatabaseURL)
	assert.Equal(t, DefaultSecret, cfg.SecretKey)
	assert.Equal(t, "admin", cfg.AdminUser)
	assert.Equal(t, "Grampanchayat Expense Tracker", cfg.AppName)
	assert.Equal(t, "Lakhalgaon", cfg.VillageName)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, domain.AmountNonNegative, cfg.AmountPolicy)
	assert.Equal(t, time.Minute, cfg.SummaryCacheTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProd())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("AMOUNT_POLICY", "positive")
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, domain.AmountPositive, cfg.AmountPolicy)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := &Config{
		AppPort:      "99999",
		DatabaseURL:  "postgres://x",
		SecretKey:    DefaultSecret,
		AppEnv:       "production",
		SessionTTL:   time.Second,
		AmountPolicy: "sometimes",
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"invalid port", "DATABASE_URL", "SECRET_KEY must be changed", "ADMIN_USER", "session ttl", "AMOUNT_POLICY"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, (&Config{LogLevel: "debug"}).GormLogLevel())
	assert.Equal(t, logger.Error, (&Config{LogLevel: "error"}).GormLogLevel())
	assert.Equal(t, logger.Warn, (&Config{LogLevel: "info"}).GormLogLevel())
}
