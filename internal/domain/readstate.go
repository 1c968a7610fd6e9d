package domain

import "time"

// ReadState is the per-category watermark. Circulars published after LastSeenAt are unseen.
type ReadState struct {
	ID         uint      `gorm:"primaryKey"`
	SchoolID   uint      `gorm:"not null;uniqueIndex:idx_read_state_key,priority:1"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_read_state_key,priority:2"`
	Category   Category  `gorm:"size:16;not null;uniqueIndex:idx_read_state_key,priority:3"`
	LastSeenAt time.Time `gorm:"not null"`
	UpdatedAt  time.Time
}

type UnseenCount struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}
