package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/partygames/internal/api/apierr"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/services/truthordare"
)

// SessionCookie is the cookie carrying the auth token
const SessionCookie = "session"

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// Auth creates authentication middleware that rejects anonymous requests
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			user, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user, token)))
		})
	}
}

// OptionalAuth attaches the user if a valid token is present but doesn't require it
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				if user, err := authService.Authenticate(r.Context(), token); err == nil {
					r = r.WithContext(withUser(r.Context(), user, token))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin allows only authenticated users whose username is listed.
// It must run after Auth.
func Admin(usernames []string) func(http.Handler) http.Handler {
	admins := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		if u = strings.TrimSpace(u); u != "" {
			admins[u] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			if _, ok := admins[user.Username]; !ok {
				apierr.WriteError(w, apierr.NewForbiddenError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withUser(ctx context.Context, user *model.User, token string) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return context.WithValue(ctx, tokenContextKey, token)
}

// ExtractToken extracts the auth token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// GetToken returns the auth token from the request context
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.User {
	user := GetUser(ctx)
	if user == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}

// Identity exposes the request's user to the session state machine
func Identity(ctx context.Context) truthordare.Identity {
	return truthordare.UserIdentity(GetUser(ctx))
}
