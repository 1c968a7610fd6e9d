package postgres

import (
	"context"

	"github.com/school-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PageRepo struct {
	db *gorm.DB
}

func NewPageRepo(db *gorm.DB) *PageRepo { return &PageRepo{db: db} }

func (r *PageRepo) Upsert(ctx context.Context, p *domain.ContentPage) (*domain.ContentPage, error) {
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "school_id"}, {Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_by", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, p.SchoolID, p.Slug)
}

func (r *PageRepo) Get(ctx context.Context, schoolID uint, slug string) (*domain.ContentPage, error) {
	var p domain.ContentPage
	if err := conn(ctx, r.db).Where("school_id = ? AND slug = ?", schoolID, slug).First(&p).Error; err != nil {
		return nil, notFound(err, "page")
	}
	return &p, nil
}

func (r *PageRepo) List(ctx context.Context, schoolID uint) ([]domain.ContentPage, error) {
	var out []domain.ContentPage
	err := conn(ctx, r.db).Where("school_id = ?", schoolID).Order("slug").Find(&out).Error
	return out, err
}

func (r *PageRepo) Delete(ctx context.Context, schoolID uint, slug string) (int64, error) {
	res := conn(ctx, r.db).Where("school_id = ? AND slug = ?", schoolID, slug).Delete(&domain.ContentPage{})
	return res.RowsAffected, res.Error
}
