package main

import (
	"expense_portal/internal/config" // Custom import path (Config)
	"expense_portal/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus"
)

// Main entry point for migration: creates the schema and seeds empty tables
func main() {
	cfg := config.LoadConfig() // Load configuration
	cfg.SetupLogging()

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
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed")
}
