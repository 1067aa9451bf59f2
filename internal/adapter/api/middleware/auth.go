package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
	"github.com/V4T54L/leatherstore/internal/usecase"
)

type contextKey int

const (
	userKey contextKey = iota
	sessionKey
)

// Authenticator resolves a session id to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, sessionID string) (*domain.User, error)
}

// WithUser returns a child context carrying the authenticated session.
func WithUser(ctx context.Context, sessionID string, user *domain.User) context.Context {
	ctx = context.WithValue(ctx, sessionKey, sessionID)
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}

// SessionIDFromContext returns the session id of an authenticated request, or "".
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

// Session loads the user behind the session cookie and attaches it to the request
// and to its log context. Requests without a valid session pass through anonymously.
func Session(auth Authenticator, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			user, err := auth.Authenticate(ctx, cookie.Value)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					log.WarnContext(ctx, "session lookup failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			logger.SetActor(ctx, usecase.ActorOf(user))
			next.ServeHTTP(w, r.WithContext(WithUser(ctx, cookie.Value, user)))
		})
	}
}

// RequireAuth answers 401 to anonymous requests.
func RequireAuth(responder Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFromContext(r.Context()) == nil {
				responder.Unauthorized(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole answers 401 to anonymous requests and 403 to users whose role is not
// listed.
func RequireRole(responder Responder, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			switch {
			case user == nil:
				responder.Unauthorized(w, r)
			case !slices.Contains(roles, user.Role):
				responder.Forbidden(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
