package models

import (
	"time"

	"gorm.io/gorm"
)

// Discussion is a user-authored post with optional image and hashtags.
// Hashtags are stored as a comma-separated string, matching the upstream schema.
type Discussion struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	Image     string         `json:"image"`
	Hashtags  string         `json:"hashtags"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Comments []Comment `gorm:"foreignKey:DiscussionID" json:"comments,omitempty"`
}
