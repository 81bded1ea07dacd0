package models

import "time"

// Post statuses. Moderators move a post through these as an issue is handled.
const (
	PostStatusOpen     = "OPEN"
	PostStatusFlagged  = "FLAGGED"
	PostStatusResolved = "RESOLVED"
	PostStatusInvalid  = "INVALID"
)

// Post is a reported issue or discussion thread.
// Votes holds the derived net score (upvotes minus downvotes); it is rewritten
// from the votes table after every vote operation, never adjusted blindly.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuthorID   uint      `gorm:"index;not null" json:"author_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Body       string    `gorm:"type:text" json:"body"`
	Images     string    `gorm:"type:text" json:"images"` // JSON array of stored image URLs
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Status     string    `gorm:"size:16;not null;default:'OPEN'" json:"status"`
	Votes      int       `gorm:"default:0" json:"votes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// PostMention tags a user in a post.
type PostMention struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_mention_pair" json:"post_id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_mention_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
