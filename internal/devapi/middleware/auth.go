package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hamed0406/upmonitor/internal/repo"
)

type ctxKey struct{}

// Verifier maps a bearer token to the user it was issued to.
type Verifier func(token string) (repo.UserID, error)

// readAuth returns the Authorization value. The dashboard sends the token
// bare; a "Bearer " prefix from other clients is stripped.
func readAuth(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// RequireUser rejects requests without a valid token with 401 and stores
// the caller's id in the request context otherwise.
func RequireUser(verify Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := readAuth(r)
			if tok == "" {
				unauthorized(w)
				return
			}
			id, err := verify(tok)
			if err != nil || id == "" {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}

// UserFrom returns the id RequireUser stored, if any.
func UserFrom(ctx context.Context) (repo.UserID, bool) {
	id, ok := ctx.Value(ctxKey{}).(repo.UserID)
	return id, ok && id != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
