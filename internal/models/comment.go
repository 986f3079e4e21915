package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a user's reply on a discussion.
type Comment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Text         string         `gorm:"type:text;not null" json:"text"`
	DiscussionID uint           `gorm:"not null;index" json:"discussion_id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
