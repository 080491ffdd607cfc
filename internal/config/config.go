package config

import (
	"fmt"     // For error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For joining validation errors
	"time"    // For durations

	"expense_portal/internal/domain" // Amount policy

	"github.com/joho/godotenv" // For loading .env files
)

// DefaultSecret is the fallback signing secret; production deployments must override it.
const DefaultSecret = "change-this-secret"

// Config holds the application configuration
type Config struct {
	AppPort         string              // Application port
	DatabaseURL     string              // sqlite://path or mysql://dsn
	SecretKey       string              // Session signing secret
	AdminUser       string              // Username seeded on first run
	AdminPass       string              // Password seeded on first run
	AppName         string              // Display name of the portal
	VillageName     string              // Display name of the locality
	AppEnv          string              // development or production
	LogLevel        string              // logrus level name
	SessionTTL      time.Duration       // Admin session lifetime
	AmountPolicy    domain.AmountPolicy // Which expense amounts are accepted
	RedisAddr       string              // Redis server address, empty disables caching
	RedisPass       string              // Redis password
	RedisDB         int                 // Redis database number
	SummaryCacheTTL time.Duration       // Lifetime of cached monthly summaries
}

// IsProd reports whether the service runs in production mode.
func (c *Config) IsProd() bool {
	return c.AppEnv == "production"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:         getEnv("PORT", "5000"),
		DatabaseURL:     getEnv("DATABASE_URL", "sqlite://grampanchayat_expense.db"),
		SecretKey:       getEnv("SECRET_KEY", DefaultSecret),
		AdminUser:       getEnv("ADMIN_USER", "admin"),
		AdminPass:       getEnv("ADMIN_PASS", "admin123"),
		AppName:         getEnv("APP_NAME", "Grampanchayat Expense Tracker"),
		VillageName:     getEnv("VILLAGE_NAME", "Lakhalgaon"),
		AppEnv:          strings.ToLower(getEnv("APP_ENV", "development")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SessionTTL:      getEnvDuration("SESSION_TTL", 12*time.Hour),
		AmountPolicy:    domain.AmountPolicy(getEnv("AMOUNT_POLICY", string(domain.AmountNonNegative))),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPass:       os.Getenv("REDIS_PASS"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		SummaryCacheTTL: getEnvDuration("SUMMARY_CACHE_TTL", 60*time.Second),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.AppPort); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.AppPort))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !strings.HasPrefix(c.DatabaseURL, "sqlite://") && !strings.HasPrefix(c.DatabaseURL, "mysql://") {
		errs = append(errs, fmt.Sprintf("invalid DATABASE_URL '%s': must start with sqlite:// or mysql://", c.DatabaseURL))
	}

	if c.SecretKey == "" {
		errs = append(errs, "SECRET_KEY cannot be empty")
	} else if c.IsProd() && c.SecretKey == DefaultSecret {
		errs = append(errs, "SECRET_KEY must be changed in production")
	}

	if strings.TrimSpace(c.AdminUser) == "" || c.AdminPass == "" {
		errs = append(errs, "ADMIN_USER and ADMIN_PASS cannot be empty")
	}

	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid session ttl %v: must be at least 1 minute", c.SessionTTL))
	}

	if !c.AmountPolicy.Valid() {
		errs = append(errs, fmt.Sprintf("invalid AMOUNT_POLICY '%s': must be one of any, non_negative, positive", c.AmountPolicy))
	}

	if c.SummaryCacheTTL < 0 {
		errs = append(errs, "SUMMARY_CACHE_TTL cannot be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
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
