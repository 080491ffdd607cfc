package domain

import "time"

// Category Model
type Category struct {
	ID        uint      `gorm:"primaryKey"`                    // Primary key
	Name      string    `gorm:"size:100;uniqueIndex;not null"` // Display name, unique ignoring case
	CreatedAt time.Time `gorm:"autoCreateTime"`                // Timestamp of creation
	// Deleting a category deletes its expenses
	Expenses []Expense `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// DefaultCategories are seeded into an empty categories table.
var DefaultCategories = []string{
	"Roads",
	"Water",
	"Electricity",
	"Sanitation",
	"Education",
	"Health",
	"Public Works",
	"Other",
}
