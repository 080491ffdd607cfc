package db

import (
	"fmt"

	"expense_portal/internal/domain"
	"expense_portal/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedOptions carries the values written on first run.
type SeedOptions struct {
	AdminUser   string
	AdminPass   string
	AppName     string
	VillageName string
}

// Bootstrap migrates the schema and seeds empty tables. It is safe to run on
// every start; any failure means the portal must not serve traffic.
func Bootstrap(db *gorm.DB, opts SeedOptions) error {
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return Seed(db, opts)
}

// Seed fills the admin_users, categories and announcements tables when they
// are empty. Each table is seeded in its own transaction.
func Seed(db *gorm.DB, opts SeedOptions) error {
	steps := []struct {
		name  string
		model any
		rows  func() (any, error)
	}{
		{"admin_users", &domain.AdminUser{}, func() (any, error) {
			hash, err := utils.HashPassword(opts.AdminPass)
			if err != nil {
				return nil, err
			}
			return &domain.AdminUser{Username: opts.AdminUser, PasswordHash: hash}, nil
		}},
		{"categories", &domain.Category{}, func() (any, error) {
			cats := make([]domain.Category, 0, len(domain.DefaultCategories))
			for _, name := range domain.DefaultCategories {
				cats = append(cats, domain.Category{Name: name})
			}
			return &cats, nil
		}},
		{"announcements", &domain.Announcement{}, func() (any, error) {
			return &domain.Announcement{
				Title: fmt.Sprintf("Welcome to %s", opts.AppName),
				Body:  fmt.Sprintf("This portal shows where %s Grampanchayat spends public funds.", opts.VillageName),
			}, nil
		}},
	}

	for _, step := range steps {
		err := db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(step.model).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
			rows, err := step.rows()
			if err != nil {
				return err
			}
			if err := tx.Create(rows).Error; err != nil {
				return err
			}
			logrus.WithField("table", step.name).Info("Seeded default rows")
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	return nil
}
