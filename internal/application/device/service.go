package device

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/school-api/internal/domain"
	"github.com/school-api/internal/pkg/validate"
)

type Service interface {
	Register(ctx context.Context, caller domain.Caller, req domain.RegisterDeviceRequest) (*domain.DeviceToken, error)
	List(ctx context.Context, caller domain.Caller) ([]domain.DeviceToken, error)
	Delete(ctx context.Context, caller domain.Caller, deviceID string) error
}

type deviceStore interface {
	Upsert(ctx context.Context, d *domain.DeviceToken) error
	ListByUser(ctx context.Context, userID uint) ([]domain.DeviceToken, error)
	Delete(ctx context.Context, userID uint, deviceID string) (int64, error)
}

type service struct {
	repo deviceStore
	now  func() time.Time
}

func NewService(repo deviceStore) Service {
	return &service{repo: repo, now: time.Now}
}

// Register upserts on (user, device): a new token replaces the old one.
func (s *service) Register(ctx context.Context, caller domain.Caller, req domain.RegisterDeviceRequest) (*domain.DeviceToken, error) {
	req.DeviceID = strings.TrimSpace(req.DeviceID)
	req.Token = strings.TrimSpace(req.Token)
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	d := &domain.DeviceToken{
		UserID:     caller.UserID,
		DeviceID:   req.DeviceID,
		SchoolID:   caller.SchoolID,
		Token:      req.Token,
		LastSeenAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Platform != "" {
		d.Platform = &req.Platform
	}
	if err := s.repo.Upsert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) List(ctx context.Context, caller domain.Caller) ([]domain.DeviceToken, error) {
	list, err := s.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.DeviceToken{}
	}
	return list, nil
}

func (s *service) Delete(ctx context.Context, caller domain.Caller, deviceID string) error {
	n, err := s.repo.Delete(ctx, caller.UserID, deviceID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("device not found: %w", domain.ErrNotFound)
	}
	return nil
}
