package domain

import "time"

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

type RegisterDeviceRequest struct {
	DeviceID string `json:"device_id" validate:"required,max=128"`
	Token    string `json:"token" validate:"required,max=4096"`
	Platform string `json:"platform" validate:"omitempty,oneof=ios android web"`
}

// DeviceToken is unique per (user, device). Re-registering replaces the token.
type DeviceToken struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_device_user_device,priority:1"`
	DeviceID   string    `json:"device_id" gorm:"size:128;not null;uniqueIndex:idx_device_user_device,priority:2"`
	SchoolID   *uint     `json:"school_id,omitempty" gorm:"index"`
	Token      string    `json:"token" gorm:"type:text;not null"`
	Platform   *string   `json:"platform,omitempty" gorm:"size:16"`
	LastSeenAt time.Time `json:"last_seen" gorm:"not null"`
	CreatedAt  time.Time `json:"created"`
	UpdatedAt  time.Time `json:"updated"`
}
