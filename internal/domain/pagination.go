package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage bounds Offset so it cannot overflow or ask the database for an
	// absurd skip.
	MaxPage = 10000
)

// Pagination is 1-based.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize clamps page and limit into their accepted ranges.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// Page is one slice of a listing plus the total row count of the filter.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func NewPage[T any](items []T, total int64, p Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit}
}
