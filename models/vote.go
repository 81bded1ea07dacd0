package models

import "time"

// Vote records a single user's vote on exactly one of a post or a comment.
// The unique indexes enforce the invariant that a user holds at most one vote
// per target; Value is +1 (up) or -1 (down).
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_post_vote;uniqueIndex:idx_comment_vote" json:"user_id"`
	PostID    *uint     `gorm:"index;uniqueIndex:idx_post_vote" json:"post_id"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_comment_vote" json:"comment_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
