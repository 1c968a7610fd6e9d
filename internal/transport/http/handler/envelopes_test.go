package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/school-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("title", "is required"), http.StatusUnprocessableEntity},
		{fmt.Errorf("invalid id: %w", domain.ErrBadRequest), http.StatusBadRequest},
		{fmt.Errorf("bad code: %w", domain.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("role: %w", domain.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("circular: %w", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("resolved: %w", domain.ErrConflict), http.StatusConflict},
		{fmt.Errorf("cooldown: %w", domain.ErrRateLimited), http.StatusTooManyRequests},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		httpError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
		assert.Equal(t, tc.want, rr.Code, tc.err.Error())
	}
}

func TestHTTPError_HidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	httpError(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))

	var env MessageEnvelope
	decodeBody(t, rr, &env)
	assert.Equal(t, "internal server error", env.Error)
}

func TestHTTPError_ValidationFields(t *testing.T) {
	rr := httptest.NewRecorder()
	httpError(rr, httptest.NewRequest(http.MethodGet, "/", nil), &domain.ValidationError{Fields: map[string]string{"category": "must be one of EXAM", "title": "is required"}})

	var env MessageEnvelope
	decodeBody(t, rr, &env)
	assert.Equal(t, "is required", env.Fields["title"])
	assert.Len(t, env.Fields, 2)
}

func TestParsePagination(t *testing.T) {
	p, err := parsePagination(httptest.NewRequest(http.MethodGet, "/?page=3&limit=50", nil))
	assert.NoError(t, err)
	assert.Equal(t, domain.Pagination{Page: 3, Limit: 50}, p)

	_, err = parsePagination(httptest.NewRequest(http.MethodGet, "/?limit=lots", nil))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParsePagination_PageTooLarge(t *testing.T) {
	_, err := parsePagination(httptest.NewRequest(http.MethodGet, "/?page=9223372036854775807&limit=100", nil))

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "page")

	_, err = parsePagination(httptest.NewRequest(http.MethodGet, "/?page=99999999999999999999", nil))
	assert.ErrorIs(t, err, domain.ErrValidation)

	p, err := parsePagination(httptest.NewRequest(http.MethodGet, "/?page=10000", nil))
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPage, p.Page)
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(nil)

	rr := httptest.NewRecorder()
	h.Check(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil), "action", "ping"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Check(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/v1/health-check/nope", nil), "action", "nope"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
