package upload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/school-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, ttl)
	return args.String(0), args.Error(1)
}
func (m *mockObjectStore) ReadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

var now = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func newService(store *mockObjectStore) *service {
	return &service{store: store, ttl: 10 * time.Minute, now: func() time.Time { return now }, newID: func() string { return "01HZY" }}
}

func teacher() domain.Caller {
	sid := uint(3)
	return domain.Caller{UserID: 2, SchoolID: &sid, Role: domain.RoleTeacher}
}

func TestPresign(t *testing.T) {
	store := &mockObjectStore{}
	key := "schools/3/circular/01HZY-sports_day.png"
	store.On("PresignPut", mock.Anything, key, "image/png", 10*time.Minute).Return("https://s3/put", nil)
	store.On("ReadURL", mock.Anything, key, readURLTTL).Return("https://cdn/"+key, nil)

	out, err := newService(store).Presign(context.Background(), teacher(), domain.PresignUploadRequest{
		FileName:    "../../sports day.png",
		ContentType: "IMAGE/PNG",
		Purpose:     "circular",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://s3/put", out.UploadURL)
	assert.Equal(t, key, out.ObjectKey)
	assert.Equal(t, "https://cdn/"+key, out.FileURL)
	assert.Equal(t, now.Add(10*time.Minute), out.ExpiresAt)
}

func TestPresign_AddsExtension(t *testing.T) {
	store := &mockObjectStore{}
	store.On("PresignPut", mock.Anything, "schools/3/page/01HZY-handbook.pdf", "application/pdf", mock.Anything).Return("u", nil)
	store.On("ReadURL", mock.Anything, mock.Anything, mock.Anything).Return("r", nil)

	out, err := newService(store).Presign(context.Background(), teacher(), domain.PresignUploadRequest{FileName: "handbook", ContentType: "application/pdf", Purpose: "page"})
	require.NoError(t, err)
	assert.Equal(t, "schools/3/page/01HZY-handbook.pdf", out.ObjectKey)
}

func TestPresign_RejectsContentType(t *testing.T) {
	store := &mockObjectStore{}
	_, err := newService(store).Presign(context.Background(), teacher(), domain.PresignUploadRequest{FileName: "a.exe", ContentType: "application/x-msdownload", Purpose: "circular"})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "content_type")
	store.AssertNotCalled(t, "PresignPut", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPresign_StudentForbidden(t *testing.T) {
	c := teacher()
	c.Role = domain.RoleStudent
	_, err := newService(&mockObjectStore{}).Presign(context.Background(), c, domain.PresignUploadRequest{FileName: "a.png", ContentType: "image/png", Purpose: "avatar"})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPresign_StoreError(t *testing.T) {
	store := &mockObjectStore{}
	store.On("PresignPut", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("no creds"))

	_, err := newService(store).Presign(context.Background(), teacher(), domain.PresignUploadRequest{FileName: "a.png", ContentType: "image/png", Purpose: "alert"})
	require.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":          "report.pdf",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\a b.png`: "a_b.png",
		"..":                  "_",
		"":                    "_",
		"naïve.jpg":           "na_ve.jpg",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}
