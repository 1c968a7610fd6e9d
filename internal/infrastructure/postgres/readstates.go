package postgres

import (
	"context"
	"time"

	"github.com/school-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// epoch is the baseline for users who never marked a category seen.
var epoch = time.Unix(0, 0).UTC()

type ReadStateRepo struct {
	db *gorm.DB
}

func NewReadStateRepo(db *gorm.DB) *ReadStateRepo { return &ReadStateRepo{db: db} }

// MarkSeen upserts the watermark in one statement. An existing later value wins,
// so the watermark never moves backward.
func (r *ReadStateRepo) MarkSeen(ctx context.Context, schoolID, userID uint, category domain.Category, at time.Time) error {
	at = at.UTC()
	rs := domain.ReadState{
		SchoolID:   schoolID,
		UserID:     userID,
		Category:   category,
		LastSeenAt: at,
		UpdatedAt:  at,
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "school_id"}, {Name: "user_id"}, {Name: "category"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_seen_at": gorm.Expr("CASE WHEN excluded.last_seen_at > read_states.last_seen_at THEN excluded.last_seen_at ELSE read_states.last_seen_at END"),
			"updated_at":   gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&rs).Error
}

func (r *ReadStateRepo) LastSeen(ctx context.Context, schoolID, userID uint, category domain.Category) (time.Time, error) {
	var rs domain.ReadState
	err := conn(ctx, r.db).
		Where("school_id = ? AND user_id = ? AND category = ?", schoolID, userID, string(category)).
		First(&rs).Error
	if err != nil {
		return time.Time{}, notFound(err, "read state")
	}
	return rs.LastSeenAt, nil
}

const unseenFrom = `
FROM circulars c
LEFT JOIN read_states r
  ON r.school_id = c.school_id AND r.category = c.category AND r.user_id = ?
WHERE c.school_id = ? AND c.active = ? AND c.publish_date > COALESCE(r.last_seen_at, ?)`

func (r *ReadStateRepo) UnseenCount(ctx context.Context, schoolID, userID uint, category domain.Category) (int64, error) {
	var n int64
	err := conn(ctx, r.db).
		Raw("SELECT COUNT(*)"+unseenFrom+" AND c.category = ?", userID, schoolID, true, epoch, string(category)).
		Scan(&n).Error
	return n, err
}

// UnseenCounts runs one grouped query. Categories without unseen circulars are absent.
func (r *ReadStateRepo) UnseenCounts(ctx context.Context, schoolID, userID uint) (map[domain.Category]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := conn(ctx, r.db).
		Raw("SELECT c.category AS category, COUNT(*) AS count"+unseenFrom+" GROUP BY c.category", userID, schoolID, true, epoch).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Category]int64, len(rows))
	for _, row := range rows {
		out[domain.Category(row.Category)] = row.Count
	}
	return out, nil
}
