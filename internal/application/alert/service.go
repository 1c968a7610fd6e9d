package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/school-api/internal/domain"
	"github.com/school-api/internal/pkg/logger"
	"github.com/school-api/internal/pkg/validate"
	"go.uber.org/zap"
)

type Service interface {
	Raise(ctx context.Context, caller domain.Caller, req domain.RaiseAlertRequest) (*domain.SecurityAlert, error)
	List(ctx context.Context, caller domain.Caller, f domain.AlertFilter) (domain.Page[domain.SecurityAlert], error)
	Resolve(ctx context.Context, caller domain.Caller, id uint) (*domain.SecurityAlert, error)
}

type alertStore interface {
	Create(ctx context.Context, a *domain.SecurityAlert) error
	Get(ctx context.Context, schoolID, id uint) (*domain.SecurityAlert, error)
	List(ctx context.Context, schoolID uint, f domain.AlertFilter) ([]domain.SecurityAlert, int64, error)
	Resolve(ctx context.Context, schoolID, id, by uint, at time.Time) (int64, error)
}

type broadcaster interface {
	StoreAlert(ctx context.Context, a *domain.SecurityAlert) (int64, error)
	DeliverAlert(ctx context.Context, a *domain.SecurityAlert)
}

type transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type service struct {
	repo      alertStore
	broadcast broadcaster
	tx        transactor
	now       func() time.Time
}

func NewService(repo alertStore, broadcast broadcaster, tx transactor) Service {
	return &service{repo: repo, broadcast: broadcast, tx: tx, now: time.Now}
}

func (s *service) Raise(ctx context.Context, caller domain.Caller, req domain.RaiseAlertRequest) (*domain.SecurityAlert, error) {
	if err := caller.Require(domain.RolePrincipal, domain.RoleTeacher); err != nil {
		return nil, err
	}
	schoolID, err := caller.School()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	a := &domain.SecurityAlert{
		SchoolID:  schoolID,
		Kind:      domain.AlertKind(strings.ToUpper(req.Kind)),
		Message:   strings.TrimSpace(req.Message),
		RaisedBy:  caller.UserID,
		CreatedAt: s.now().UTC(),
	}

	var recipients int64
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, a); err != nil {
			return err
		}
		recipients, err = s.broadcast.StoreAlert(ctx, a)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("raise alert: %w", err)
	}
	logger.FromContext(ctx).Warn("security alert raised",
		zap.Uint("alert_id", a.ID),
		zap.Uint("school_id", schoolID),
		zap.String("kind", string(a.Kind)),
		zap.Uint("raised_by", caller.UserID),
		zap.Int64("recipients", recipients),
	)

	s.broadcast.DeliverAlert(ctx, a)
	return a, nil
}

func (s *service) List(ctx context.Context, caller domain.Caller, f domain.AlertFilter) (domain.Page[domain.SecurityAlert], error) {
	schoolID, err := caller.School()
	if err != nil {
		return domain.Page[domain.SecurityAlert]{}, err
	}
	f.Pagination = f.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, schoolID, f)
	if err != nil {
		return domain.Page[domain.SecurityAlert]{}, err
	}
	return domain.NewPage(items, total, f.Pagination), nil
}

// Resolve succeeds once per alert. A second call reports ErrConflict.
func (s *service) Resolve(ctx context.Context, caller domain.Caller, id uint) (*domain.SecurityAlert, error) {
	if err := caller.Require(domain.RolePrincipal); err != nil {
		return nil, err
	}
	schoolID, err := caller.School()
	if err != nil {
		return nil, err
	}
	a, err := s.repo.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	if a.Resolved() {
		return nil, fmt.Errorf("alert %d already resolved: %w", id, domain.ErrConflict)
	}
	now := s.now().UTC()
	n, err := s.repo.Resolve(ctx, schoolID, id, caller.UserID, now)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("alert %d already resolved: %w", id, domain.ErrConflict)
	}
	a.ResolvedAt = &now
	a.ResolvedBy = &caller.UserID
	return a, nil
}
