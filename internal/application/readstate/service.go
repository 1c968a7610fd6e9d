package readstate

import (
	"context"
	"time"

	"github.com/school-api/internal/domain"
)

type Service interface {
	MarkSeen(ctx context.Context, caller domain.Caller, category string) error
	UnseenCount(ctx context.Context, caller domain.Caller, category string) (domain.UnseenCount, error)
	// UnseenCounts always carries one key per category.
	UnseenCounts(ctx context.Context, caller domain.Caller) (map[domain.Category]int64, error)
}

type readStateStore interface {
	MarkSeen(ctx context.Context, schoolID, userID uint, category domain.Category, at time.Time) error
	UnseenCount(ctx context.Context, schoolID, userID uint, category domain.Category) (int64, error)
	UnseenCounts(ctx context.Context, schoolID, userID uint) (map[domain.Category]int64, error)
}

type service struct {
	repo readStateStore
	now  func() time.Time
}

func NewService(repo readStateStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) MarkSeen(ctx context.Context, caller domain.Caller, category string) error {
	schoolID, err := caller.School()
	if err != nil {
		return err
	}
	cat, err := domain.ParseCategory(category)
	if err != nil {
		return err
	}
	return s.repo.MarkSeen(ctx, schoolID, caller.UserID, cat, s.now().UTC())
}

func (s *service) UnseenCount(ctx context.Context, caller domain.Caller, category string) (domain.UnseenCount, error) {
	schoolID, err := caller.School()
	if err != nil {
		return domain.UnseenCount{}, err
	}
	cat, err := domain.ParseCategory(category)
	if err != nil {
		return domain.UnseenCount{}, err
	}
	n, err := s.repo.UnseenCount(ctx, schoolID, caller.UserID, cat)
	if err != nil {
		return domain.UnseenCount{}, err
	}
	return domain.UnseenCount{Category: cat, Count: n}, nil
}

func (s *service) UnseenCounts(ctx context.Context, caller domain.Caller) (map[domain.Category]int64, error) {
	schoolID, err := caller.School()
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.UnseenCounts(ctx, schoolID, caller.UserID)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Category]int64, len(domain.Categories()))
	for _, c := range domain.Categories() {
		out[c] = counts[c]
	}
	return out, nil
}
