package page

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/school-api/internal/domain"
	"github.com/school-api/internal/pkg/validate"
)

const maxSlugLength = 64

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type Service interface {
	List(ctx context.Context, caller domain.Caller) ([]domain.ContentPage, error)
	Get(ctx context.Context, caller domain.Caller, slug string) (*domain.ContentPage, error)
	Upsert(ctx context.Context, caller domain.Caller, slug string, req domain.UpsertPageRequest) (*domain.ContentPage, error)
	Delete(ctx context.Context, caller domain.Caller, slug string) error
}

type pageStore interface {
	Upsert(ctx context.Context, p *domain.ContentPage) (*domain.ContentPage, error)
	Get(ctx context.Context, schoolID uint, slug string) (*domain.ContentPage, error)
	List(ctx context.Context, schoolID uint) ([]domain.ContentPage, error)
	Delete(ctx context.Context, schoolID uint, slug string) (int64, error)
}

type service struct {
	repo pageStore
}

func NewService(repo pageStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, caller domain.Caller) ([]domain.ContentPage, error) {
	schoolID, err := caller.School()
	if err != nil {
		return nil, err
	}
	pages, err := s.repo.List(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []domain.ContentPage{}
	}
	return pages, nil
}

func (s *service) Get(ctx context.Context, caller domain.Caller, slug string) (*domain.ContentPage, error) {
	schoolID, err := caller.School()
	if err != nil {
		return nil, err
	}
	slug, err = parseSlug(slug)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, schoolID, slug)
}

func (s *service) Upsert(ctx context.Context, caller domain.Caller, slug string, req domain.UpsertPageRequest) (*domain.ContentPage, error) {
	if err := caller.Require(domain.RolePrincipal); err != nil {
		return nil, err
	}
	schoolID, err := caller.School()
	if err != nil {
		return nil, err
	}
	slug, err = parseSlug(slug)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, &domain.ContentPage{
		SchoolID:  schoolID,
		Slug:      slug,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		UpdatedBy: caller.UserID,
	})
}

func (s *service) Delete(ctx context.Context, caller domain.Caller, slug string) error {
	if err := caller.Require(domain.RolePrincipal); err != nil {
		return err
	}
	schoolID, err := caller.School()
	if err != nil {
		return err
	}
	slug, err = parseSlug(slug)
	if err != nil {
		return err
	}
	n, err := s.repo.Delete(ctx, schoolID, slug)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("page %q not found: %w", slug, domain.ErrNotFound)
	}
	return nil
}

func parseSlug(slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if len(slug) > maxSlugLength || !slugPattern.MatchString(slug) {
		return "", domain.NewValidationError("slug", "must be lowercase words joined by single dashes, at most 64 characters")
	}
	return slug, nil
}
