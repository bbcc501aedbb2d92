package models

import (
	"time"
)

// User model. Username is the login identifier (an email address for
// accounts created through the public signup flow).
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time  `gorm:"index"`
	Username       string      `gorm:"size:255;not null;unique"`
	HashedPassword []byte      `gorm:"not null"`
	Submission     *Submission `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Document       *Document   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	RoleID         *uint       `gorm:"index"`
	Role           Role        `gorm:"foreignKey:RoleID;references:ID"`
}
