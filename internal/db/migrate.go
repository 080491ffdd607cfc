package db

import (
	"expense_portal/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/gorm" // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.AdminUser{}, &domain.Category{}, &domain.Expense{}, &domain.Announcement{}); err != nil {
		return err
	}
	logrus.Debug("Migration completed.")
	return nil
}
