package postgres

import (
	"context"

	"github.com/school-api/internal/domain"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Get(ctx context.Context, userID uint) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).First(&u, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).Where("phone = ?", phone).First(&u).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}
