package domain

import "time"

// Announcement Model
type Announcement struct {
	ID        uint      `gorm:"primaryKey"`         // Primary key
	Title     string    `gorm:"size:200;not null"`  // Headline
	Body      string    `gorm:"size:2000;not null"` // Notice text
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
