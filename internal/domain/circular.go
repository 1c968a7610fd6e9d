package domain

import (
	"time"

	"gorm.io/datatypes"
)

// PreviewLength is the rune length of list previews before the ellipsis.
const PreviewLength = 160

type Circular struct {
	ID          uint                        `json:"id" gorm:"primaryKey"`
	SchoolID    uint                        `json:"school_id" gorm:"not null;index:idx_circular_school_category_publish,priority:1"`
	Category    Category                    `json:"category" gorm:"size:16;not null;index:idx_circular_school_category_publish,priority:2"`
	Title       string                      `json:"title" gorm:"size:255;not null"`
	Description string                      `json:"description" gorm:"type:text;not null"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	PublishDate time.Time                   `json:"publish_date" gorm:"not null;index:idx_circular_school_category_publish,priority:3"`
	AuthorID    uint                        `json:"author_id" gorm:"not null"`
	Active      bool                        `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time                   `json:"created"`
	UpdatedAt   time.Time                   `json:"updated"`
}

// FirstImage returns the leading image URL, if any.
func (c *Circular) FirstImage() (string, bool) {
	if len(c.Images) == 0 {
		return "", false
	}
	return c.Images[0], true
}

// CircularSummary is the list projection of a circular.
type CircularSummary struct {
	ID          uint      `json:"id"`
	Category    Category  `json:"category"`
	Title       string    `json:"title"`
	Preview     string    `json:"preview"`
	ImageURL    *string   `json:"image_url,omitempty"`
	PublishDate time.Time `json:"publish_date"`
	Active      bool      `json:"active"`
}

type CreateCircularRequest struct {
	Category    string   `json:"category" validate:"required,category"`
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Images      []string `json:"images" validate:"omitempty,max=10,dive,required,url"`
	PublishDate *string  `json:"publish_date"`
}

type UpdateCircularRequest struct {
	Category    *string   `json:"category" validate:"omitempty,category"`
	Title       *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string   `json:"description" validate:"omitempty,min=1"`
	Images      *[]string `json:"images" validate:"omitempty,max=10,dive,required,url"`
	PublishDate *string   `json:"publish_date"`
	Active      *bool     `json:"active"`
}

type CircularFilter struct {
	Category *Category
	Active   *bool
	Search   string
	Pagination
}
