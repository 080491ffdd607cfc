// Package store is the data access layer of the portal. Every method takes the
// request context and runs on its own gorm session; writes run inside a
// transaction that is committed or rolled back before the method returns.
package store

import (
	"context"

	"expense_portal/internal/domain"

	"gorm.io/gorm"
)

const (
	ListLimit               = 200 // rows shown on the public listing
	RecentExpenseLimit      = 10  // rows on the admin dashboard
	RecentAnnouncementLimit = 5
)

// Store wraps the database handle.
type Store struct {
	db     *gorm.DB
	policy domain.AmountPolicy
}

// New returns a Store validating expense amounts with policy.
func New(db *gorm.DB, policy domain.AmountPolicy) *Store {
	return &Store{db: db, policy: policy}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) session(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
