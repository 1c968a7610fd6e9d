package postgres

import (
	"context"
	"fmt"

	"github.com/school-api/internal/domain"
	"gorm.io/gorm"
)

type CircularRepo struct {
	db *gorm.DB
}

func NewCircularRepo(db *gorm.DB) *CircularRepo { return &CircularRepo{db: db} }

func (r *CircularRepo) Create(ctx context.Context, c *domain.Circular) error {
	return conn(ctx, r.db).Create(c).Error
}

func (r *CircularRepo) Get(ctx context.Context, schoolID, id uint) (*domain.Circular, error) {
	var c domain.Circular
	if err := conn(ctx, r.db).Where("school_id = ?", schoolID).First(&c, id).Error; err != nil {
		return nil, notFound(err, "circular")
	}
	return &c, nil
}

// Save writes every mutable column of c. It never inserts: a circular deleted
// since it was loaded is reported as not found.
func (r *CircularRepo) Save(ctx context.Context, c *domain.Circular) error {
	res := conn(ctx, r.db).Model(c).
		Where("school_id = ?", c.SchoolID).
		Select("*").Omit("id", "school_id", "created_at").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("circular not found: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *CircularRepo) Delete(ctx context.Context, schoolID, id uint) (int64, error) {
	res := conn(ctx, r.db).Where("school_id = ?", schoolID).Delete(&domain.Circular{}, id)
	return res.RowsAffected, res.Error
}

// List returns one page ordered by publish date, newest first.
func (r *CircularRepo) List(ctx context.Context, schoolID uint, f domain.CircularFilter) ([]domain.Circular, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("school_id = ?", schoolID)
		if f.Category != nil {
			q = q.Where("category = ?", string(*f.Category))
		}
		if f.Active != nil {
			q = q.Where("active = ?", *f.Active)
		}
		if f.Search != "" {
			p := likePattern(f.Search)
			q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, p, p)
		}
		return q
	}

	var total int64
	if err := conn(ctx, r.db).Model(&domain.Circular{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.Circular
	err := conn(ctx, r.db).Scopes(scope).
		Order("publish_date DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset()).
		Find(&items).Error
	return items, total, err
}
