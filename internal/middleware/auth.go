package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/finledger/finledger-go/internal/crypto"
	"github.com/finledger/finledger-go/internal/model"
)

type contextKey string

const userIDKey contextKey = "userID"

// SubjectResolver looks up the user a verified token subject refers to.
// Implemented by service.AuthService.
type SubjectResolver interface {
	ResolveSubject(ctx context.Context, email string) (*model.User, error)
}

// JWTAuth returns middleware that validates a Bearer token from the
// Authorization header and resolves its subject against the user store.
// Every failure mode — missing header, bad token, expired token, unknown
// subject — produces the same generic 401; the specific cause is only
// logged.
func JWTAuth(secret string, users SubjectResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, r, "missing authorization header")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				unauthorized(w, r, "invalid authorization format")
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				unauthorized(w, r, "token validation failed")
				return
			}

			user, err := users.ResolveSubject(r.Context(), claims.Subject)
			if err != nil {
				unauthorized(w, r, "token subject not found")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	slog.Debug("request unauthenticated", "path", r.URL.Path, "reason", reason)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "could not validate credentials"})
}
