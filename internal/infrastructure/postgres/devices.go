package postgres

import (
	"context"

	"github.com/school-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepo struct {
	db *gorm.DB
}

func NewDeviceRepo(db *gorm.DB) *DeviceRepo { return &DeviceRepo{db: db} }

// Upsert inserts or replaces the token of (user_id, device_id).
func (r *DeviceRepo) Upsert(ctx context.Context, d *domain.DeviceToken) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "platform", "school_id", "last_seen_at", "updated_at"}),
	}).Create(d).Error
}

func (r *DeviceRepo) ListByUser(ctx context.Context, userID uint) ([]domain.DeviceToken, error) {
	var out []domain.DeviceToken
	err := conn(ctx, r.db).Where("user_id = ?", userID).Order("last_seen_at DESC").Find(&out).Error
	return out, err
}

func (r *DeviceRepo) Delete(ctx context.Context, userID uint, deviceID string) (int64, error) {
	res := conn(ctx, r.db).Where("user_id = ? AND device_id = ?", userID, deviceID).Delete(&domain.DeviceToken{})
	return res.RowsAffected, res.Error
}

// TokensForAudience returns the distinct non-empty tokens held by the selected users.
func (r *DeviceRepo) TokensForAudience(ctx context.Context, schoolID uint, a domain.Audience) ([]string, error) {
	q := conn(ctx, r.db).Table("device_tokens AS d").
		Joins("JOIN users u ON u.id = d.user_id").
		Where("d.token <> ''")
	var tokens []string
	err := audience(q, "u.", schoolID, a).Distinct().Pluck("d.token", &tokens).Error
	return tokens, err
}
