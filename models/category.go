package models

import "time"

// Category groups posts around a locality or topic (e.g. "Roads", "Water Supply").
// PostCount and member counts are recomputed from their source tables on read,
// never trusted as stored counters.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Rules       string    `gorm:"type:text" json:"rules"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	PostCount   int64 `gorm:"-" json:"post_count"`
	MemberCount int64 `gorm:"-" json:"member_count"`
}

// CategoryMember records membership. Moderator marks members who can review
// reports and edit the category; the creator starts as the sole moderator.
type CategoryMember struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_member_pair" json:"category_id"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_member_pair" json:"user_id"`
	Moderator  bool      `gorm:"default:false;index" json:"moderator"`
	CreatedAt  time.Time `json:"created_at"`
}
