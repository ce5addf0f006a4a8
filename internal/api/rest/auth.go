package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fortuna/cricbase/internal/store"
)

type userKey struct{}

// stubUser is the identity every bearer token resolves to until tokens are
// verified.
var stubUser = store.User{
	ID:        "1",
	Username:  "current_user",
	Email:     "user@example.com",
	CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

// bearerUser resolves the Authorization header. Any non-empty bearer token
// is accepted.
func bearerUser(r *http.Request) (store.User, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return store.User{}, false
	}
	return stubUser, true
}

// RequireAuth rejects requests without a bearer token with 403
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := bearerUser(r)
		if !ok {
			respondError(w, http.StatusForbidden, "Not authenticated", nil)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	}
}

// userFrom returns the user RequireAuth attached to ctx.
func userFrom(ctx context.Context) (store.User, bool) {
	user, ok := ctx.Value(userKey{}).(store.User)
	return user, ok
}
