package domain

import "strings"

// Category is the closed set of circular tags. Unseen counts are kept per category.
type Category string

const (
	CategoryExam      Category = "EXAM"
	CategoryEvent     Category = "EVENT"
	CategoryPTM       Category = "PTM"
	CategoryHoliday   Category = "HOLIDAY"
	CategoryTransport Category = "TRANSPORT"
	CategoryGeneral   Category = "GENERAL"
)

var categories = []Category{
	CategoryExam,
	CategoryEvent,
	CategoryPTM,
	CategoryHoliday,
	CategoryTransport,
	CategoryGeneral,
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, k := range categories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory accepts any letter case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewValidationError("category", "must be one of "+categoryList())
	}
	return c, nil
}

func categoryList() string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
