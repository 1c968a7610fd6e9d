package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/school-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUploadSvc struct{ mock.Mock }

func (m *mockUploadSvc) Presign(ctx context.Context, c domain.Caller, req domain.PresignUploadRequest) (*domain.PresignedUpload, error) {
	args := m.Called(ctx, c, req)
	if v, _ := args.Get(0).(*domain.PresignedUpload); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPresignUpload_Created(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUploadSvc{}
	req := domain.PresignUploadRequest{FileName: "flyer.png", ContentType: "image/png", Purpose: "circular"}
	svc.On("Presign", mock.Anything, principal, req).Return(&domain.PresignedUpload{
		UploadURL: "https://bucket.s3.amazonaws.com/put",
		ObjectKey: "schools/10/circular/abc-flyer.png",
		FileURL:   "https://bucket.s3.amazonaws.com/get",
		ExpiresAt: time.Date(2026, 1, 1, 0, 15, 0, 0, time.UTC),
	}, nil)
	h := NewUploadHandler(svc)

	rr := httptest.NewRecorder()
	serveAuthed(p, h.Presign, rr, bearerReq(t, p, http.MethodPost, "/v1/uploads/presign", principal, req))

	require.Equal(t, http.StatusCreated, rr.Code)
	var got domain.PresignedUpload
	decodeBody(t, rr, &got)
	assert.Equal(t, "schools/10/circular/abc-flyer.png", got.ObjectKey)
}

func TestPresignUpload_UnsupportedType(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUploadSvc{}
	svc.On("Presign", mock.Anything, principal, mock.Anything).
		Return(nil, domain.NewValidationError("content_type", "unsupported content type"))
	h := NewUploadHandler(svc)

	rr := httptest.NewRecorder()
	serveAuthed(p, h.Presign, rr, bearerReq(t, p, http.MethodPost, "/v1/uploads/presign", principal,
		domain.PresignUploadRequest{FileName: "a.exe", ContentType: "application/x-msdownload", Purpose: "circular"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
