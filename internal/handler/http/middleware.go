package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/enkitstudio/restaurant/internal/authz"
	"github.com/enkitstudio/restaurant/pkg/httputil"
	"github.com/enkitstudio/restaurant/pkg/middleware"
)

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// AuthzGuard evaluates every request against the route policy. Anonymous
// requests to protected routes get 401; authenticated principals lacking the
// required role get 403. Public routes pass through untouched.
func AuthzGuard(policy *authz.Policy, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := middleware.PrincipalFromContext(r.Context())
			roles := middleware.RolesFromContext(r.Context())

			switch policy.Evaluate(r.Method, r.URL.Path, username, roles) {
			case authz.DenyAnonymous:
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNAUTHORIZED",
						Message: "authentication required",
					},
				})
			case authz.DenyRole:
				logger.WarnContext(r.Context(), "access denied",
					slog.String("username", username),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "FORBIDDEN",
						Message: "insufficient permissions",
					},
				})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// decodeJSON reads a JSON request body into dst with a 1MB limit.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_INPUT",
				Message: "invalid request body: " + err.Error(),
			},
		})
		return false
	}
	return true
}
