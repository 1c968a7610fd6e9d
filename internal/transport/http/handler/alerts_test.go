package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/school-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAlertSvc struct{ mock.Mock }

func (m *mockAlertSvc) Raise(ctx context.Context, c domain.Caller, req domain.RaiseAlertRequest) (*domain.SecurityAlert, error) {
	args := m.Called(ctx, c, req)
	if v, _ := args.Get(0).(*domain.SecurityAlert); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAlertSvc) List(ctx context.Context, c domain.Caller, f domain.AlertFilter) (domain.Page[domain.SecurityAlert], error) {
	args := m.Called(ctx, c, f)
	return args.Get(0).(domain.Page[domain.SecurityAlert]), args.Error(1)
}
func (m *mockAlertSvc) Resolve(ctx context.Context, c domain.Caller, id uint) (*domain.SecurityAlert, error) {
	args := m.Called(ctx, c, id)
	if v, _ := args.Get(0).(*domain.SecurityAlert); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRaiseAlert(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockAlertSvc{}
	req := domain.RaiseAlertRequest{Kind: "FIRE", Message: "Evacuate block B"}
	svc.On("Raise", mock.Anything, teacher, req).Return(&domain.SecurityAlert{ID: 11, SchoolID: 10, Kind: domain.AlertFire, Message: req.Message, RaisedBy: 2}, nil)
	h := NewAlertHandler(svc)

	rr := httptest.NewRecorder()
	serveAuthed(p, h.Raise, rr, bearerReq(t, p, http.MethodPost, "/v1/alerts", teacher, req))

	require.Equal(t, http.StatusCreated, rr.Code)
	var got domain.SecurityAlert
	decodeBody(t, rr, &got)
	assert.Equal(t, domain.AlertFire, got.Kind)
}

func TestListAlerts_ActiveOnly(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockAlertSvc{}
	svc.On("List", mock.Anything, student, domain.AlertFilter{ActiveOnly: true}).
		Return(domain.Page[domain.SecurityAlert]{Items: []domain.SecurityAlert{}, Page: 1, Limit: 20}, nil)
	h := NewAlertHandler(svc)

	rr := httptest.NewRecorder()
	serveAuthed(p, h.List, rr, bearerReq(t, p, http.MethodGet, "/v1/alerts?active=true", student, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestResolveAlert_Conflict(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockAlertSvc{}
	svc.On("Resolve", mock.Anything, principal, uint(11)).Return(nil, domain.ErrConflict)
	h := NewAlertHandler(svc)

	rr := httptest.NewRecorder()
	r := withURLParams(bearerReq(t, p, http.MethodPost, "/v1/alerts/11/resolve", principal, nil), "id", "11")
	serveAuthed(p, h.Resolve, rr, r)

	assert.Equal(t, http.StatusConflict, rr.Code)
}
