package domain

import "time"

// User is scoped to a school. SchoolID is nil only for ADMIN.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SchoolID  *uint     `json:"school_id" gorm:"index"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Phone     string    `json:"phone" gorm:"size:32;uniqueIndex;not null"`
	Email     *string   `json:"email,omitempty" gorm:"size:255"`
	Role      Role      `json:"role" gorm:"size:16;index;not null"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}
