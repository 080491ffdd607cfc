package domain

import "time"

// AdminUser Model
type AdminUser struct {
	ID           uint      `gorm:"primaryKey"`                   // Primary key
	Username     string    `gorm:"size:50;uniqueIndex;not null"` // Unique login name
	PasswordHash string    `gorm:"size:255;not null" json:"-"`   // bcrypt hash, never plaintext
	CreatedAt    time.Time `gorm:"autoCreateTime"`               // Timestamp of creation
}
