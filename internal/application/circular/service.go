package circular

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/school-api/internal/domain"
	"github.com/school-api/internal/pkg/logger"
	"github.com/school-api/internal/pkg/validate"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service interface {
	Create(ctx context.Context, caller domain.Caller, req domain.CreateCircularRequest) (*domain.Circular, error)
	Get(ctx context.Context, caller domain.Caller, id uint) (*domain.Circular, error)
	List(ctx context.Context, caller domain.Caller, f domain.CircularFilter) (domain.Page[domain.CircularSummary], error)
	Update(ctx context.Context, caller domain.Caller, id uint, req domain.UpdateCircularRequest) (*domain.Circular, error)
	Delete(ctx context.Context, caller domain.Caller, id uint) error
}

type circularStore interface {
	Create(ctx context.Context, c *domain.Circular) error
	Get(ctx context.Context, schoolID, id uint) (*domain.Circular, error)
	Save(ctx context.Context, c *domain.Circular) error
	Delete(ctx context.Context, schoolID, id uint) (int64, error)
	List(ctx context.Context, schoolID uint, f domain.CircularFilter) ([]domain.Circular, int64, error)
}

type broadcaster interface {
	StoreCircular(ctx context.Context, c *domain.Circular) (int64, error)
	DeliverCircular(ctx context.Context, c *domain.Circular)
}

type transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type service struct {
	repo      circularStore
	broadcast broadcaster
	tx        transactor
	now       func() time.Time
}

func NewService(repo circularStore, broadcast broadcaster, tx transactor) Service {
	return &service{repo: repo, broadcast: broadcast, tx: tx, now: time.Now}
}

// Create stores the circular and its feed rows in one transaction, then pushes.
func (s *service) Create(ctx context.Context, caller domain.Caller, req domain.CreateCircularRequest) (*domain.Circular, error) {
	if err := caller.Require(domain.RolePrincipal); err != nil {
		return nil, err
	}
	schoolID, err := caller.School()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	cat, err := domain.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	publish := now
	if req.PublishDate != nil {
		if publish, err = parsePublishDate(*req.PublishDate); err != nil {
			return nil, err
		}
	}

	c := &domain.Circular{
		SchoolID:    schoolID,
		Category:    cat,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Images:      datatypes.JSONSlice[string](req.Images),
		PublishDate: publish,
		AuthorID:    caller.UserID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Images == nil {
		c.Images = datatypes.JSONSlice[string]{}
	}

	var recipients int64
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, c); err != nil {
			return err
		}
		recipients, err = s.broadcast.StoreCircular(ctx, c)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create circular: %w", err)
	}
	logger.FromContext(ctx).Info("circular published",
		zap.Uint("circular_id", c.ID),
		zap.Uint("school_id", schoolID),
		zap.String("category", string(cat)),
		zap.Int64("recipients", recipients),
	)

	s.broadcast.DeliverCircular(ctx, c)
	return c, nil
}

// Get hides inactive circulars from everyone but principals.
func (s *service) Get(ctx context.Context, caller domain.Caller, id uint) (*domain.Circular, error) {
	schoolID, err := caller.School()
	if err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	if !c.Active && !caller.Is(domain.RolePrincipal) {
		return nil, fmt.Errorf("circular not found: %w", domain.ErrNotFound)
	}
	return c, nil
}

func (s *service) List(ctx context.Context, caller domain.Caller, f domain.CircularFilter) (domain.Page[domain.CircularSummary], error) {
	schoolID, err := caller.School()
	if err != nil {
		return domain.Page[domain.CircularSummary]{}, err
	}
	f.Pagination = f.Pagination.Normalize()
	f.Search = strings.TrimSpace(f.Search)
	if !caller.Is(domain.RolePrincipal) {
		active := true
		f.Active = &active
	}

	rows, total, err := s.repo.List(ctx, schoolID, f)
	if err != nil {
		return domain.Page[domain.CircularSummary]{}, err
	}
	items := make([]domain.CircularSummary, len(rows))
	for i := range rows {
		items[i] = Summarize(&rows[i])
	}
	return domain.NewPage(items, total, f.Pagination), nil
}

func (s *service) Update(ctx context.Context, caller domain.Caller, id uint, req domain.UpdateCircularRequest) (*domain.Circular, error) {
	if err := caller.Require(domain.RolePrincipal); err != nil {
		return nil, err
	}
	schoolID, err := caller.School()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var publish *time.Time
	if req.PublishDate != nil {
		t, err := parsePublishDate(*req.PublishDate)
		if err != nil {
			return nil, err
		}
		publish = &t
	}

	c, err := s.repo.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	if req.Category != nil {
		if c.Category, err = domain.ParseCategory(*req.Category); err != nil {
			return nil, err
		}
	}
	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Images != nil {
		c.Images = datatypes.JSONSlice[string](*req.Images)
		if c.Images == nil {
			c.Images = datatypes.JSONSlice[string]{}
		}
	}
	if publish != nil {
		c.PublishDate = *publish
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, caller domain.Caller, id uint) error {
	if err := caller.Require(domain.RolePrincipal); err != nil {
		return err
	}
	schoolID, err := caller.School()
	if err != nil {
		return err
	}
	n, err := s.repo.Delete(ctx, schoolID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("circular not found: %w", domain.ErrNotFound)
	}
	return nil
}

// Summarize builds the list projection with a truncated preview.
func Summarize(c *domain.Circular) domain.CircularSummary {
	sum := domain.CircularSummary{
		ID:          c.ID,
		Category:    c.Category,
		Title:       c.Title,
		Preview:     Preview(c.Description),
		PublishDate: c.PublishDate,
		Active:      c.Active,
	}
	if img, ok := c.FirstImage(); ok {
		sum.ImageURL = &img
	}
	return sum
}

// Preview cuts s to PreviewLength runes and appends "..." when it cut anything.
func Preview(s string) string {
	r := []rune(s)
	if len(r) <= domain.PreviewLength {
		return s
	}
	return string(r[:domain.PreviewLength]) + "..."
}

// parsePublishDate accepts RFC 3339 timestamps or plain dates.
func parsePublishDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError("publish_date", "must be an RFC 3339 timestamp or YYYY-MM-DD date")
}
