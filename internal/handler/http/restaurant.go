package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/enkitstudio/restaurant/internal/domain"
	"github.com/enkitstudio/restaurant/internal/service"
	"github.com/enkitstudio/restaurant/pkg/httputil"
	"github.com/enkitstudio/restaurant/pkg/middleware"
	"github.com/enkitstudio/restaurant/pkg/validator"
)

// pathParam returns a chi URL parameter by name.
func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// RestaurantHandler handles HTTP requests for restaurants.
type RestaurantHandler struct {
	restaurants *service.RestaurantService
	logger      *slog.Logger
}

// NewRestaurantHandler creates a new restaurant HTTP handler.
func NewRestaurantHandler(restaurants *service.RestaurantService, logger *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, logger: logger}
}

// CreateRestaurantRequest is the JSON request body for restaurant creation.
type CreateRestaurantRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// Create handles POST /api/restaurants
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRestaurantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	rest, err := h.restaurants.Create(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: rest})
}

// List handles GET /api/restaurants
func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.restaurants.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: restaurants})
}

// MenuHandler handles HTTP requests for menus.
type MenuHandler struct {
	menus  *service.MenuService
	logger *slog.Logger
}

// NewMenuHandler creates a new menu HTTP handler.
func NewMenuHandler(menus *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{menus: menus, logger: logger}
}

// CreateMenuRequest is the JSON request body for menu creation.
type CreateMenuRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Description  string `json:"description" validate:"max=500"`
	RestaurantID int64  `json:"restaurant_id" validate:"required,gt=0"`
}

// Create handles POST /api/menus
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	menu, err := h.menus.Create(r.Context(), req.Name, req.Description, req.RestaurantID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: menu})
}

// List handles GET /api/menus
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	menus, err := h.menus.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: menus})
}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orders   *service.OrderService
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(orders *service.OrderService, accounts *service.AccountService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, accounts: accounts, logger: logger}
}

// CreateOrderRequest is the JSON request body for order placement.
type CreateOrderRequest struct {
	MenuID int64 `json:"menu_id" validate:"required,gt=0"`
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	// The customer is always the authenticated principal.
	username := middleware.PrincipalFromContext(r.Context())
	user, err := h.accounts.GetAccount(r.Context(), username)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	order, err := h.orders.Create(r.Context(), req.MenuID, user.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// OrderDecisionHandler handles HTTP requests for order decisions.
type OrderDecisionHandler struct {
	decisions *service.OrderDecisionService
	logger    *slog.Logger
}

// NewOrderDecisionHandler creates a new order decision HTTP handler.
func NewOrderDecisionHandler(decisions *service.OrderDecisionService, logger *slog.Logger) *OrderDecisionHandler {
	return &OrderDecisionHandler{decisions: decisions, logger: logger}
}

// CreateDecisionRequest is the JSON request body for recording a decision.
type CreateDecisionRequest struct {
	OrderID      int64  `json:"order_id" validate:"required,gt=0"`
	RestaurantID int64  `json:"restaurant_id" validate:"required,gt=0"`
	Status       string `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
}

// Create handles POST /api/order-decisions
func (h *OrderDecisionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDecisionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	decision, err := h.decisions.Create(r.Context(), req.OrderID, req.RestaurantID, domain.DecisionStatus(req.Status))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: decision})
}

// List handles GET /api/order-decisions
func (h *OrderDecisionHandler) List(w http.ResponseWriter, r *http.Request) {
	decisions, err := h.decisions.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: decisions})
}
