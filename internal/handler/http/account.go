package http

import (
	"log/slog"
	"net/http"

	"github.com/enkitstudio/restaurant/internal/ratelimit"
	"github.com/enkitstudio/restaurant/internal/service"
	apperrors "github.com/enkitstudio/restaurant/pkg/errors"
	"github.com/enkitstudio/restaurant/pkg/httputil"
	"github.com/enkitstudio/restaurant/pkg/middleware"
	"github.com/enkitstudio/restaurant/pkg/validator"
)

// AccountHandler serves the authenticated principal's own account: profile
// reads and updates, and password changes. Mutations pass through the
// admission gate before touching the service.
type AccountHandler struct {
	accounts *service.AccountService
	gate     *ratelimit.Gate
	logger   *slog.Logger
}

// NewAccountHandler creates a new account HTTP handler.
func NewAccountHandler(accounts *service.AccountService, gate *ratelimit.Gate, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, gate: gate, logger: logger}
}

// UpdateProfileRequest is the JSON request body for profile updates.
type UpdateProfileRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
}

// ChangePasswordRequest is the JSON request body for password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// Get handles GET /api/account
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := middleware.PrincipalFromContext(r.Context())

	user, err := h.accounts.GetAccount(r.Context(), username)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// UpdateProfile handles POST /api/account
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !h.gate.TryAdmit(ratelimit.OpProfileUpdate) {
		httputil.WriteError(w, r, apperrors.RateLimited(), h.logger)
		return
	}

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	username := middleware.PrincipalFromContext(r.Context())
	if err := h.accounts.UpdateProfile(r.Context(), username, req.Email, req.FirstName, req.LastName); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "profile updated"},
	})
}

// ChangePassword handles POST /api/account/change-password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !h.gate.TryAdmit(ratelimit.OpPasswordChange) {
		httputil.WriteError(w, r, apperrors.RateLimited(), h.logger)
		return
	}

	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	username := middleware.PrincipalFromContext(r.Context())
	if err := h.accounts.ChangePassword(r.Context(), username, req.CurrentPassword, req.NewPassword); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "password changed"},
	})
}

// AdminHandler serves the administrative account endpoints.
type AdminHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(accounts *service.AccountService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{accounts: accounts, logger: logger}
}

// GetUser handles GET /api/admin/users/{username}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := pathParam(r, "username")

	user, err := h.accounts.GetAccount(r.Context(), username)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}
