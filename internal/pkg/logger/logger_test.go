package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	assert.Same(t, L(), FromContext(context.Background()))
}

func TestMiddleware_LogsRequestWithID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	var scoped *zap.Logger
	h := chimiddleware.RequestID(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scoped = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/circulars", nil))

	require.NotNil(t, scoped)
	entries := logs.FilterMessage("HTTP request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/v1/circulars", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}
