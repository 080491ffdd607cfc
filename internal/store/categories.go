package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expense_portal/internal/domain"

	"gorm.io/gorm"
)

// ListCategories returns all categories by name.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := s.session(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a category unless one with the same name, ignoring
// case, already exists.
func (s *Store) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "Category name is required.")
	}

	category := domain.Category{Name: name}
	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Category{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrCategoryExists
		}
		return tx.Create(&category).Error
	})
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, domain.ErrCategoryExists), errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, domain.ErrCategoryExists
	}
	return nil, fmt.Errorf("create category: %w", err)
}

// DeleteCategory removes a category together with all of its expenses.
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUnknownCategory
		}
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrUnknownCategory) {
		return fmt.Errorf("delete category: %w", err)
	}
	return err
}
