package domain

import "time"

// ContentPage is a tenant-scoped CMS page addressed by slug.
type ContentPage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SchoolID  uint      `json:"school_id" gorm:"not null;uniqueIndex:idx_page_school_slug,priority:1"`
	Slug      string    `json:"slug" gorm:"size:64;not null;uniqueIndex:idx_page_school_slug,priority:2"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	UpdatedBy uint      `json:"updated_by" gorm:"not null"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

type UpsertPageRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}
