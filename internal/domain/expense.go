package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by forms, filters and exports.
const DateLayout = "2006-01-02"

// Expense Model
type Expense struct {
	ID          uint            `gorm:"primaryKey"`                  // Primary key
	Title       string          `gorm:"size:200;not null"`           // Short title
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"` // Amount spent
	DateSpent   time.Time       `gorm:"type:date;not null;index"`    // Calendar date of the spend
	Description *string         `gorm:"size:1000"`                   // Optional free text
	ReceiptURL  *string         `gorm:"size:500"`                    // Optional receipt reference
	CategoryID  uint            `gorm:"not null;index"`              // Owning category
	Category    *Category       // Owning category, loaded on demand
	CreatedAt   time.Time       `gorm:"autoCreateTime;index"` // Insert time, drives "recent" ordering
}

// CategoryName returns the owning category's name, or "" when it is not loaded.
func (e Expense) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Name
}

// DescriptionText returns the description or "" when absent.
func (e Expense) DescriptionText() string {
	if e.Description == nil {
		return ""
	}
	return *e.Description
}

// ReceiptText returns the receipt reference or "" when absent.
func (e Expense) ReceiptText() string {
	if e.ReceiptURL == nil {
		return ""
	}
	return *e.ReceiptURL
}

// MonthTotal is one bucket of a monthly summary.
type MonthTotal struct {
	Month string          // "YYYY-MM"
	Total decimal.Decimal // Sum of amounts spent in the month
}
