package main

import (
	"context"  // context package is needed for Redis operations and shutdown
	"errors"   // For detecting a normal server close
	"net/http" // HTTP server
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense_portal/internal/api"        // Custom package for HTTP handlers
	"expense_portal/internal/config"     // Custom package for configuration
	"expense_portal/internal/db"         // Custom package for database setup
	"expense_portal/internal/middleware" // Custom package for middleware
	"expense_portal/internal/store"      // Custom package for data access

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	cfg.SetupLogging()

	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}
	if cfg.SecretKey == config.DefaultSecret {
		logrus.Warn("SECRET_KEY is the default value, set it before exposing the portal")
	}

	// Connect to the database, then create and seed the schema
	gdb, err := db.Open(cfg.DatabaseURL, cfg.GormLogLevel())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Bootstrap(gdb, db.SeedOptions{
		AdminUser:   cfg.AdminUser,
		AdminPass:   cfg.AdminPass,
		AppName:     cfg.AppName,
		VillageName: cfg.VillageName,
	}); err != nil {
		logrus.Fatalf("failed to initialise DB: %v", err)
	}

	// Redis is optional: without it summaries are not cached and logout only clears the cookie
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, running without cache and session revocation")
	}

	// Set Mode to Release if in production
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := api.NewRouter(api.RouterOptions{
		Store: store.New(gdb, cfg.AmountPolicy),
		Redis: redisClient,
		Sessions: &middleware.Sessions{
			Secret: cfg.SecretKey,
			TTL:    cfg.SessionTTL,
			Secure: cfg.IsProd(),
			Redis:  redisClient,
		},
		Site:       api.Site{AppName: cfg.AppName, VillageName: cfg.VillageName},
		SummaryTTL: cfg.SummaryCacheTTL,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	// Set trusted proxies for Gin
	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.AppPort,
			"env":     cfg.AppEnv,
			"village": cfg.VillageName,
		}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logrus.Info("Server stopped")
}
