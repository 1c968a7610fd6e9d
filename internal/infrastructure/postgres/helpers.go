package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/school-api/internal/domain"
	"gorm.io/gorm"
)

// notFound maps gorm's missing-row error onto the domain sentinel.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s not found: %w", what, domain.ErrNotFound)
	}
	return err
}

// likePattern builds a case-folded substring pattern for use with ESCAPE '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func roleNames(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// audience narrows a users query to the active members selected by a.
// prefix is the users table alias including the dot, or "".
func audience(q *gorm.DB, prefix string, schoolID uint, a domain.Audience) *gorm.DB {
	q = q.Where(prefix+"school_id = ? AND "+prefix+"active = ?", schoolID, true)
	if len(a.Roles) > 0 {
		q = q.Where(prefix+"role IN ?", roleNames(a.Roles))
	}
	if a.ExcludeUserID != 0 {
		q = q.Where(prefix+"id <> ?", a.ExcludeUserID)
	}
	return q
}
