package domain

import "time"

// Feed item source types.
const (
	SourceCircular      = "CIRCULAR"
	SourceSecurityAlert = "SECURITY_ALERT"
)

// FeedItem is one notification row in a user's feed. IsRead only moves false to true.
type FeedItem struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	SchoolID   uint       `json:"school_id" gorm:"not null;index"`
	UserID     uint       `json:"user_id" gorm:"not null;index:idx_feed_user_read_created,priority:1"`
	Title      string     `json:"title" gorm:"size:255;not null"`
	Body       *string    `json:"body,omitempty" gorm:"type:text"`
	Image      *string    `json:"image,omitempty" gorm:"size:1024"`
	Category   *string    `json:"category,omitempty" gorm:"size:32"`
	SourceType *string    `json:"source_type,omitempty" gorm:"size:32"`
	SourceID   *uint      `json:"source_id,omitempty"`
	IsRead     bool       `json:"is_read" gorm:"not null;default:false;index:idx_feed_user_read_created,priority:2"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created" gorm:"index:idx_feed_user_read_created,priority:3"`
}

func (FeedItem) TableName() string { return "notifications" }

type FeedFilter struct {
	IsRead *bool
	Search string
	Pagination
}

// MarkReadRequest accepts exactly one of NotificationID or All.
type MarkReadRequest struct {
	NotificationID *uint `json:"notification_id"`
	All            bool  `json:"all"`
}

// PushPayload is what the push gateway sends. An empty Body with an ImageURL shows the image only.
type PushPayload struct {
	Title    string
	Body     string
	ImageURL string
	Data     map[string]string
}

// Audience selects the active members of a school that receive a fan-out.
// Nil Roles means every role.
type Audience struct {
	Roles         []Role
	ExcludeUserID uint
}
