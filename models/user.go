package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. OFFICIAL marks verified civic-body accounts; ADMIN has full access.
const (
	RolePublic   = "PUBLIC"
	RoleOfficial = "OFFICIAL"
	RoleAdmin    = "ADMIN"
)

// User represents a registered account. Passwords are stored as bcrypt hashes only.
// The handle is the unique lowercase URL-safe identifier, distinct from the display name.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Handle       string    `gorm:"size:64;uniqueIndex;not null" json:"handle"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:'PUBLIC'" json:"role"`
	Bio          string    `gorm:"size:512" json:"bio"`
	AvatarURL    string    `gorm:"size:512" json:"avatar_url"`
	Points       int       `gorm:"default:0" json:"points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// Follow links a follower to the account they follow. One row per pair.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// SavedPost is a bookmark: one row per (user, post) pair.
type SavedPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_pair" json:"user_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_saved_pair" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
