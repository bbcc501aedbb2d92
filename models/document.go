package models

import "time"

// Document is an uploaded pitch deck. One active document per user;
// re-uploading replaces the previous record and its files.
type Document struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	StorePath   string    `gorm:"size:512" json:"store_path"`
	ThumbPath   string    `gorm:"size:512" json:"thumb_path"`
	ContentType string    `gorm:"size:128" json:"content_type"`
}
