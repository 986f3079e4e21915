package models

import (
	"time"
)

// TargetKind identifies what a like points at.
type TargetKind string

const (
	TargetDiscussion TargetKind = "discussion"
	TargetComment    TargetKind = "comment"
)

// Valid reports whether k is a known target kind.
func (k TargetKind) Valid() bool {
	return k == TargetDiscussion || k == TargetComment
}

// TargetEntity is the polymorphic reference a like points to: either a
// discussion or a comment. The (kind, target_id) pair is unique so each
// likeable thing has exactly one entity row.
type TargetEntity struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Kind      TargetKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_kind_target" json:"entity_type"`
	TargetID  uint       `gorm:"not null;uniqueIndex:idx_kind_target" json:"entity_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// Like records that a user liked a target entity.
// The (target_entity_id, user_id) pair is unique: one like per user per
// target. Rows are hard-deleted on unlike so the unique index never blocks a
// re-like.
type Like struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TargetEntityID uint      `gorm:"not null;uniqueIndex:idx_target_user" json:"target_entity_id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_target_user" json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`

	TargetEntity TargetEntity `gorm:"foreignKey:TargetEntityID" json:"target_entity,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
