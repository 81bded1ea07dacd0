package models

import "time"

// Notification types.
const (
	NotificationTypeVote    = "VOTE"
	NotificationTypeComment = "COMMENT"
	NotificationTypeNewPost = "NEW_POST"
	NotificationTypeMention = "MENTION"
	NotificationTypeFollow  = "FOLLOW"
)

// Entity types a notification can point at.
const (
	EntityTypePost     = "post"
	EntityTypeComment  = "comment"
	EntityTypeUser     = "user"
	EntityTypeCategory = "category"
)

// Notification is a per-recipient record created by fan-out on qualifying
// events. Message is pre-rendered at creation time and never recomputed from
// the referenced entities. Notifications are only ever mutated by read-flag
// updates and are never deleted.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index:idx_notif_inbox,priority:1" json:"recipient_id"`
	ActorID     *uint     `gorm:"index" json:"actor_id"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	EntityType  string    `gorm:"size:16" json:"entity_type"`
	EntityID    uint      `json:"entity_id"`
	Message     string    `gorm:"size:512" json:"message"`
	Read        bool      `gorm:"default:false;index:idx_notif_inbox,priority:2" json:"read"`
	CreatedAt   time.Time `gorm:"index:idx_notif_inbox,priority:3" json:"created_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
