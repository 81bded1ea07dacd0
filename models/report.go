package models

import "time"

// Report target types.
const (
	ReportTypePost    = "POST"
	ReportTypeUser    = "USER"
	ReportTypeComment = "COMMENT"
)

// Report reasons. ReasonOther requires a free-text CustomReason.
const (
	ReasonSpam           = "SPAM"
	ReasonHarassment     = "HARASSMENT"
	ReasonInappropriate  = "INAPPROPRIATE"
	ReasonMisinformation = "MISINFORMATION"
	ReasonOther          = "OTHER"
)

// Report review statuses.
const (
	ReportStatusPending   = "PENDING"
	ReportStatusReviewed  = "REVIEWED"
	ReportStatusResolved  = "RESOLVED"
	ReportStatusDismissed = "DISMISSED"
)

// Report flags a post, comment, or user for moderator review. TargetID is
// resolved through ReportType. The unique index enforces one report per
// (reporter, target, type).
type Report struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReportedByID uint      `gorm:"not null;uniqueIndex:idx_report_once" json:"reported_by_id"`
	ReportType   string    `gorm:"size:16;not null;uniqueIndex:idx_report_once" json:"report_type"`
	TargetID     uint      `gorm:"not null;index;uniqueIndex:idx_report_once" json:"target_id"`
	Reason       string    `gorm:"size:32;not null" json:"reason"`
	CustomReason string    `gorm:"size:512" json:"custom_reason"`
	Status       string    `gorm:"size:16;not null;default:'PENDING';index" json:"status"`
	CategoryID   *uint     `gorm:"index" json:"category_id"`
	ReviewedByID *uint     `json:"reviewed_by_id"`
	ReviewNote   string    `gorm:"size:512" json:"review_note"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	ReportedBy User `gorm:"foreignKey:ReportedByID" json:"reported_by"`
}
