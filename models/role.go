package models

import "time"

// Role is one of the platform's member roles (founder, mentor,
// investor, service_provider, administrator). Seeded at migration.
type Role struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"size:32;uniqueIndex;not null"`
	Description string `gorm:"size:255"`
}
