package handler

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/school-api/internal/config"
	"github.com/school-api/internal/domain"
	jwtinfra "github.com/school-api/internal/infrastructure/jwt"
	"github.com/school-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/require"
)

// newTestJWTProvider generates a fresh RSA key pair and returns a *jwtinfra.Provider.
func newTestJWTProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	p, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiry:         24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

func uintPtr(v uint) *uint { return &v }

var (
	principal = domain.Caller{UserID: 1, SchoolID: uintPtr(10), Role: domain.RolePrincipal}
	teacher   = domain.Caller{UserID: 2, SchoolID: uintPtr(10), Role: domain.RoleTeacher}
	student   = domain.Caller{UserID: 3, SchoolID: uintPtr(10), Role: domain.RoleStudent}
)

// bearerReq builds a request carrying a signed Bearer token for c.
func bearerReq(t *testing.T, p *jwtinfra.Provider, method, target string, c domain.Caller, body interface{}) *http.Request {
	t.Helper()
	token, err := p.Sign(c.UserID, c.SchoolID, c.Role)
	require.NoError(t, err)
	var r *http.Request
	if body != nil {
		raw, ok := body.([]byte)
		if !ok {
			raw, err = json.Marshal(body)
			require.NoError(t, err)
		}
		r = httptest.NewRequest(method, target, bytes.NewReader(raw))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// withURLParams injects chi URL params into the request context.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// serveAuthed wraps the handler with middleware.Auth before serving.
func serveAuthed(p *jwtinfra.Provider, h http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	middleware.Auth(p)(h).ServeHTTP(w, r)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v))
}
