package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expense_portal/internal/domain"
	"expense_portal/internal/utils"

	"gorm.io/gorm"
)

// Authenticate returns the admin matching username and password, or
// domain.ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*domain.AdminUser, error) {
	username, password = strings.TrimSpace(username), strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	var admin domain.AdminUser
	if err := s.session(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !utils.CheckPassword(admin.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return &admin, nil
}

// AdminExists reports whether an admin account named username exists.
func (s *Store) AdminExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.session(ctx).Model(&domain.AdminUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("find admin: %w", err)
	}
	return count > 0, nil
}
