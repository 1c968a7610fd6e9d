package middleware

import (
	"net/http"
)

// RequireSchool rejects authenticated callers that are not bound to a school.
// Mount it after Auth on tenant-scoped route groups.
func RequireSchool(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if _, err := caller.School(); err != nil {
			writeJSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
