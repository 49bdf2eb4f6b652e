package http

import (
	"log/slog"
	"net/http"

	"github.com/enkitstudio/restaurant/internal/service"
	"github.com/enkitstudio/restaurant/pkg/httputil"
	"github.com/enkitstudio/restaurant/pkg/validator"
)

// AuthHandler handles the public account lifecycle endpoints: registration,
// activation, login, and the two-step password reset.
type AuthHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(accounts *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for account registration.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=1,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
}

// ActivateRequest is the JSON request body for account activation.
type ActivateRequest struct {
	Token string `json:"token" validate:"required"`
}

// AuthenticateRequest is the JSON request body for login.
type AuthenticateRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetInitRequest is the JSON request body for requesting a password reset.
type ResetInitRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetFinishRequest is the JSON request body for completing a password reset.
type ResetFinishRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// --- Handlers ---

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if _, err := h.accounts.Register(r.Context(), input); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// The activation token travels out of band; it is never echoed here.
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: map[string]string{"message": "account registered; check your email for the activation link"},
	})
}

// Activate handles POST /api/activate
func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.accounts.Activate(r.Context(), req.Token); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "account activated"},
	})
}

// Authenticate handles POST /api/authenticate
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	token, _, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"id_token": token},
	})
}

// ResetPasswordInit handles POST /api/account/reset-password/init
func (h *AuthHandler) ResetPasswordInit(w http.ResponseWriter, r *http.Request) {
	var req ResetInitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if _, err := h.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "a password reset link has been sent"},
	})
}

// ResetPasswordFinish handles POST /api/account/reset-password/finish
func (h *AuthHandler) ResetPasswordFinish(w http.ResponseWriter, r *http.Request) {
	var req ResetFinishRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.accounts.FinishPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "password has been reset"},
	})
}
