package user

import (
	"context"
	"fmt"

	"github.com/school-api/internal/domain"
)

type Service interface {
	Profile(ctx context.Context, caller domain.Caller) (*domain.User, error)
}

type userStore interface {
	Get(ctx context.Context, userID uint) (*domain.User, error)
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

// Profile returns the caller's own record. A deactivated account or a token
// whose claims no longer match the stored user is rejected.
func (s *service) Profile(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	u, err := s.repo.Get(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrUnauthorized)
	}
	if u.Role != caller.Role || !sameSchool(u.SchoolID, caller.SchoolID) {
		return nil, fmt.Errorf("stale token claims: %w", domain.ErrUnauthorized)
	}
	return u, nil
}

func sameSchool(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
