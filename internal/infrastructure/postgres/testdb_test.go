package postgres

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/school-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
// One connection keeps the in-memory database alive for the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig("silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))
	return db
}

var phoneSeq atomic.Int64

type fixture struct {
	db      *gorm.DB
	schoolA uint
	schoolB uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	a := domain.School{Name: "Alpha High"}
	b := domain.School{Name: "Beta Primary"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)
	return &fixture{db: db, schoolA: a.ID, schoolB: b.ID}
}

func (f *fixture) user(t *testing.T, school uint, role domain.Role, active bool) *domain.User {
	t.Helper()
	u := &domain.User{
		SchoolID: &school,
		Name:     string(role),
		Phone:    fmt.Sprintf("+1555%07d", phoneSeq.Add(1)),
		Role:     role,
		Active:   true,
	}
	require.NoError(t, f.db.Create(u).Error)
	if !active {
		require.NoError(t, f.db.Model(u).Update("active", false).Error)
		u.Active = false
	}
	return u
}

func (f *fixture) circular(t *testing.T, school uint, cat domain.Category, published time.Time, active bool) *domain.Circular {
	t.Helper()
	c := &domain.Circular{
		SchoolID:    school,
		Category:    cat,
		Title:       string(cat) + " notice",
		Description: "details",
		Images:      []string{},
		PublishDate: published.UTC(),
		AuthorID:    1,
		Active:      true,
	}
	require.NoError(t, f.db.Create(c).Error)
	if !active {
		require.NoError(t, f.db.Model(c).Update("active", false).Error)
	}
	return c
}
