package postgres

import (
	"context"
	"time"

	"github.com/school-api/internal/domain"
	"gorm.io/gorm"
)

// feedBatchSize bounds the rows of one multi-row INSERT. It keeps the bind
// parameter count well under PostgreSQL's 65535 limit.
const feedBatchSize = 1000

type FeedRepo struct {
	db *gorm.DB
}

func NewFeedRepo(db *gorm.DB) *FeedRepo { return &FeedRepo{db: db} }

// InsertForAudience writes one copy of item per selected user. It issues one
// SELECT plus one INSERT per feedBatchSize recipients and returns the number of
// rows written.
func (r *FeedRepo) InsertForAudience(ctx context.Context, schoolID uint, a domain.Audience, item domain.FeedItem) (int64, error) {
	db := conn(ctx, r.db)

	var userIDs []uint
	if err := audience(db.Model(&domain.User{}), "", schoolID, a).Order("id").Pluck("id", &userIDs).Error; err != nil {
		return 0, err
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([]domain.FeedItem, len(userIDs))
	for i, uid := range userIDs {
		row := item
		row.ID = 0
		row.SchoolID = schoolID
		row.UserID = uid
		row.IsRead = false
		row.ReadAt = nil
		row.CreatedAt = now
		rows[i] = row
	}
	res := db.CreateInBatches(&rows, feedBatchSize)
	return res.RowsAffected, res.Error
}

func (r *FeedRepo) List(ctx context.Context, schoolID, userID uint, f domain.FeedFilter) ([]domain.FeedItem, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("school_id = ? AND user_id = ?", schoolID, userID)
		if f.IsRead != nil {
			q = q.Where("is_read = ?", *f.IsRead)
		}
		if f.Search != "" {
			p := likePattern(f.Search)
			q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(body) LIKE ? ESCAPE '\')`, p, p)
		}
		return q
	}

	var total int64
	if err := conn(ctx, r.db).Model(&domain.FeedItem{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.FeedItem
	err := conn(ctx, r.db).Scopes(scope).
		Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset()).
		Find(&items).Error
	return items, total, err
}

// Get is scoped to the owner. Another user's item is reported as not found.
func (r *FeedRepo) Get(ctx context.Context, schoolID, userID, id uint) (*domain.FeedItem, error) {
	var n domain.FeedItem
	err := conn(ctx, r.db).
		Where("school_id = ? AND user_id = ?", schoolID, userID).
		First(&n, id).Error
	if err != nil {
		return nil, notFound(err, "notification")
	}
	return &n, nil
}

// MarkRead flips one unread item. Already-read items are left untouched.
func (r *FeedRepo) MarkRead(ctx context.Context, schoolID, userID, id uint, at time.Time) (int64, error) {
	res := conn(ctx, r.db).Model(&domain.FeedItem{}).
		Where("id = ? AND school_id = ? AND user_id = ? AND is_read = ?", id, schoolID, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at.UTC()})
	return res.RowsAffected, res.Error
}

// MarkAllRead flips every unread item of the user in one UPDATE.
func (r *FeedRepo) MarkAllRead(ctx context.Context, schoolID, userID uint, at time.Time) (int64, error) {
	res := conn(ctx, r.db).Model(&domain.FeedItem{}).
		Where("school_id = ? AND user_id = ? AND is_read = ?", schoolID, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at.UTC()})
	return res.RowsAffected, res.Error
}

func (r *FeedRepo) CountUnread(ctx context.Context, schoolID, userID uint) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&domain.FeedItem{}).
		Where("school_id = ? AND user_id = ? AND is_read = ?", schoolID, userID, false).
		Count(&n).Error
	return n, err
}
