package store

import (
	"context"
	"fmt"
	"strings"

	"expense_portal/internal/domain"

	"gorm.io/gorm"
)

// RecentAnnouncements returns the newest announcements first.
func (s *Store) RecentAnnouncements(ctx context.Context, limit int) ([]domain.Announcement, error) {
	var announcements []domain.Announcement
	err := s.session(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&announcements).Error
	if err != nil {
		return nil, fmt.Errorf("recent announcements: %w", err)
	}
	return announcements, nil
}

// CreateAnnouncement publishes a notice.
func (s *Store) CreateAnnouncement(ctx context.Context, title, body string) (*domain.Announcement, error) {
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if title == "" || body == "" {
		return nil, domain.Invalid("title", "Title and body are required.")
	}
	announcement := domain.Announcement{Title: title, Body: body}
	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&announcement).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return &announcement, nil
}
