package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	rolesKey     contextKey = "roles"
)

// TokenValidator verifies a bearer token and returns the authenticated
// username and its roles.
type TokenValidator func(token string) (username string, roles []string, err error)

// Authenticate extracts the bearer token from the Authorization header, runs
// it through the validator, and stores the principal in the request context.
// Requests without a token or with an invalid token pass through anonymously;
// access decisions are made downstream by the authorization guard, which knows
// which routes are public.
func Authenticate(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			username, roles, err := validate(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithPrincipal(r.Context(), username, roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// WithPrincipal stores the authenticated username and roles in the context.
func WithPrincipal(ctx context.Context, username string, roles []string) context.Context {
	ctx = context.WithValue(ctx, principalKey, username)
	return context.WithValue(ctx, rolesKey, roles)
}

// PrincipalFromContext returns the authenticated username, or "" for
// anonymous requests.
func PrincipalFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(principalKey).(string); ok {
		return v
	}
	return ""
}

// RolesFromContext returns the roles of the authenticated principal.
func RolesFromContext(ctx context.Context) []string {
	if v, ok := ctx.Value(rolesKey).([]string); ok {
		return v
	}
	return nil
}
