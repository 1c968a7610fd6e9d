package postgres

import (
	"context"
	"time"

	"github.com/school-api/internal/domain"
	"gorm.io/gorm"
)

type AlertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) *AlertRepo { return &AlertRepo{db: db} }

func (r *AlertRepo) Create(ctx context.Context, a *domain.SecurityAlert) error {
	return conn(ctx, r.db).Create(a).Error
}

func (r *AlertRepo) Get(ctx context.Context, schoolID, id uint) (*domain.SecurityAlert, error) {
	var a domain.SecurityAlert
	if err := conn(ctx, r.db).Where("school_id = ?", schoolID).First(&a, id).Error; err != nil {
		return nil, notFound(err, "alert")
	}
	return &a, nil
}

func (r *AlertRepo) List(ctx context.Context, schoolID uint, f domain.AlertFilter) ([]domain.SecurityAlert, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("school_id = ?", schoolID)
		if f.ActiveOnly {
			q = q.Where("resolved_at IS NULL")
		}
		return q
	}
	var total int64
	if err := conn(ctx, r.db).Model(&domain.SecurityAlert{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.SecurityAlert
	err := conn(ctx, r.db).Scopes(scope).
		Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset()).
		Find(&items).Error
	return items, total, err
}

// Resolve sets the resolution fields only while they are still empty.
func (r *AlertRepo) Resolve(ctx context.Context, schoolID, id, by uint, at time.Time) (int64, error) {
	res := conn(ctx, r.db).Model(&domain.SecurityAlert{}).
		Where("id = ? AND school_id = ? AND resolved_at IS NULL", id, schoolID).
		Updates(map[string]interface{}{"resolved_at": at.UTC(), "resolved_by": by})
	return res.RowsAffected, res.Error
}
