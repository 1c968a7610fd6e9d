package domain

import "time"

type AlertKind string

const (
	AlertLockdown AlertKind = "LOCKDOWN"
	AlertFire     AlertKind = "FIRE"
	AlertMedical  AlertKind = "MEDICAL"
	AlertWeather  AlertKind = "WEATHER"
	AlertOther    AlertKind = "OTHER"
)

func (k AlertKind) Valid() bool {
	switch k {
	case AlertLockdown, AlertFire, AlertMedical, AlertWeather, AlertOther:
		return true
	}
	return false
}

// SecurityAlert is broadcast to every active member of the school except the raiser.
type SecurityAlert struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	SchoolID   uint       `json:"school_id" gorm:"not null;index:idx_alert_school_created,priority:1"`
	Kind       AlertKind  `json:"kind" gorm:"size:16;not null"`
	Message    string     `json:"message" gorm:"type:text;not null"`
	RaisedBy   uint       `json:"raised_by" gorm:"not null"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy *uint      `json:"resolved_by,omitempty"`
	CreatedAt  time.Time  `json:"created" gorm:"index:idx_alert_school_created,priority:2"`
}

func (a *SecurityAlert) Resolved() bool { return a.ResolvedAt != nil }

type RaiseAlertRequest struct {
	Kind    string `json:"kind" validate:"required,alert_kind"`
	Message string `json:"message" validate:"required,max=1000"`
}

type AlertFilter struct {
	ActiveOnly bool
	Pagination
}
