package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/school-api/internal/domain"
	"github.com/school-api/internal/pkg/logger"
	"github.com/school-api/internal/transport/http/middleware"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string            `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
	ErrorCode int               `json:"error_code,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// AuthEnvelope wraps the OTP verify response.
type AuthEnvelope struct {
	Bearer string       `json:"Bearer"`
	User   *domain.User `json:"user"`
}

// CountEnvelope wraps single-category unseen counts.
type CountEnvelope struct {
	Category domain.Category `json:"category"`
	Count    int64           `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: status})
}

// httpError maps domain errors onto status codes. Anything unrecognised is
// logged and reported as a generic 500.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, MessageEnvelope{
			Error:     "validation failed",
			ErrorCode: http.StatusUnprocessableEntity,
			Fields:    ve.Fields,
		})
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many requests")
	default:
		logger.FromContext(r.Context()).Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body: %w", domain.ErrBadRequest)
		}
		return fmt.Errorf("invalid request body: %w", domain.ErrBadRequest)
	}
	return nil
}

// callerFrom writes a 401 and reports false when no authenticated caller is present.
func callerFrom(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	c, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return c, ok
}

func uintParam(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid %s: %w", name, domain.ErrBadRequest)
	}
	return uint(v), nil
}

// parsePagination reads page and limit. Missing values are left at zero for
// the service to default.
func parsePagination(r *http.Request) (domain.Pagination, error) {
	var p domain.Pagination
	q := r.URL.Query()
	for name, dst := range map[string]*int{"page": &p.Page, "limit": &p.Limit} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, domain.NewValidationError(name, "must be a non-negative integer")
		}
		*dst = n
	}
	if p.Page > domain.MaxPage {
		return p, domain.NewValidationError("page", fmt.Sprintf("must be at most %d", domain.MaxPage))
	}
	return p, nil
}

func boolQuery(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be true or false")
	}
	return &b, nil
}
