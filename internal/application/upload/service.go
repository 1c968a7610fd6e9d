package upload

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/school-api/internal/domain"
	"github.com/school-api/internal/pkg/id"
	"github.com/school-api/internal/pkg/validate"
)

// readURLTTL is the longest lifetime S3 accepts for a SigV4 presigned GET.
const readURLTTL = 7 * 24 * time.Hour

var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

type Service interface {
	Presign(ctx context.Context, caller domain.Caller, req domain.PresignUploadRequest) (*domain.PresignedUpload, error)
}

type objectStore interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	ReadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	store objectStore
	ttl   time.Duration
	now   func() time.Time
	newID func() string
}

func NewService(store objectStore, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &service{store: store, ttl: ttl, now: time.Now, newID: id.New}
}

// Presign hands out a PUT URL under schools/{id}/{purpose}/. The client
// uploads directly to S3 and then references FileURL in circulars or pages.
func (s *service) Presign(ctx context.Context, caller domain.Caller, req domain.PresignUploadRequest) (*domain.PresignedUpload, error) {
	if err := caller.Require(domain.RolePrincipal, domain.RoleTeacher); err != nil {
		return nil, err
	}
	schoolID, err := caller.School()
	if err != nil {
		return nil, err
	}
	req.ContentType = strings.ToLower(strings.TrimSpace(req.ContentType))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	ext, ok := allowedTypes[req.ContentType]
	if !ok {
		return nil, domain.NewValidationError("content_type", "must be one of image/jpeg, image/png, image/webp, application/pdf")
	}

	name := sanitizeFilename(req.FileName)
	if path.Ext(name) == "" {
		name += ext
	}
	key := fmt.Sprintf("schools/%d/%s/%s-%s", schoolID, req.Purpose, s.newID(), name)

	uploadURL, err := s.store.PresignPut(ctx, key, req.ContentType, s.ttl)
	if err != nil {
		return nil, err
	}
	fileURL, err := s.store.ReadURL(ctx, key, readURLTTL)
	if err != nil {
		return nil, err
	}
	return &domain.PresignedUpload{
		UploadURL: uploadURL,
		ObjectKey: key,
		FileURL:   fileURL,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}, nil
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." && result != ".." {
		return result
	}
	return "_"
}
