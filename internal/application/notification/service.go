package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/school-api/internal/domain"
)

// MarkReadResult reports how many items flipped to read.
type MarkReadResult struct {
	Updated int64 `json:"updated"`
}

type Service interface {
	List(ctx context.Context, caller domain.Caller, f domain.FeedFilter) (domain.Page[domain.FeedItem], error)
	MarkRead(ctx context.Context, caller domain.Caller, req domain.MarkReadRequest) (MarkReadResult, error)
	UnreadCount(ctx context.Context, caller domain.Caller) (int64, error)
}

type feedStore interface {
	List(ctx context.Context, schoolID, userID uint, f domain.FeedFilter) ([]domain.FeedItem, int64, error)
	Get(ctx context.Context, schoolID, userID, id uint) (*domain.FeedItem, error)
	MarkRead(ctx context.Context, schoolID, userID, id uint, at time.Time) (int64, error)
	MarkAllRead(ctx context.Context, schoolID, userID uint, at time.Time) (int64, error)
	CountUnread(ctx context.Context, schoolID, userID uint) (int64, error)
}

type service struct {
	repo feedStore
	now  func() time.Time
}

func NewService(repo feedStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) List(ctx context.Context, caller domain.Caller, f domain.FeedFilter) (domain.Page[domain.FeedItem], error) {
	schoolID, err := caller.School()
	if err != nil {
		return domain.Page[domain.FeedItem]{}, err
	}
	f.Pagination = f.Pagination.Normalize()
	f.Search = strings.TrimSpace(f.Search)
	items, total, err := s.repo.List(ctx, schoolID, caller.UserID, f)
	if err != nil {
		return domain.Page[domain.FeedItem]{}, err
	}
	return domain.NewPage(items, total, f.Pagination), nil
}

// MarkRead takes exactly one of {notification_id} or {all: true}.
// Marking an already-read item is a no-op.
func (s *service) MarkRead(ctx context.Context, caller domain.Caller, req domain.MarkReadRequest) (MarkReadResult, error) {
	schoolID, err := caller.School()
	if err != nil {
		return MarkReadResult{}, err
	}
	if (req.NotificationID != nil) == req.All {
		return MarkReadResult{}, domain.NewValidationError("notification_id", "provide exactly one of notification_id or all")
	}
	now := s.now().UTC()

	if req.All {
		n, err := s.repo.MarkAllRead(ctx, schoolID, caller.UserID, now)
		if err != nil {
			return MarkReadResult{}, err
		}
		return MarkReadResult{Updated: n}, nil
	}

	item, err := s.repo.Get(ctx, schoolID, caller.UserID, *req.NotificationID)
	if err != nil {
		return MarkReadResult{}, err
	}
	if item.IsRead {
		return MarkReadResult{}, nil
	}
	n, err := s.repo.MarkRead(ctx, schoolID, caller.UserID, item.ID, now)
	if err != nil {
		return MarkReadResult{}, fmt.Errorf("mark notification %d read: %w", item.ID, err)
	}
	return MarkReadResult{Updated: n}, nil
}

func (s *service) UnreadCount(ctx context.Context, caller domain.Caller) (int64, error) {
	schoolID, err := caller.School()
	if err != nil {
		return 0, err
	}
	return s.repo.CountUnread(ctx, schoolID, caller.UserID)
}
