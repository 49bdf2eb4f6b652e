package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/enkitstudio/restaurant/internal/auth"
	"github.com/enkitstudio/restaurant/internal/authz"
	"github.com/enkitstudio/restaurant/internal/ratelimit"
	"github.com/enkitstudio/restaurant/internal/service"
	"github.com/enkitstudio/restaurant/pkg/health"
	"github.com/enkitstudio/restaurant/pkg/middleware"
)

// RouterConfig bundles the collaborators the router needs.
type RouterConfig struct {
	Accounts    *service.AccountService
	Restaurants *service.RestaurantService
	Menus       *service.MenuService
	Orders      *service.OrderService
	Decisions   *service.OrderDecisionService
	JWT         *auth.JWTManager
	Policy      *authz.Policy
	Gate        *ratelimit.Gate
	Health      *health.Handler
	Logger      *slog.Logger
	CORS        middleware.CORSConfig

	// Per-IP limiter applied to the public auth endpoints.
	AuthRateRPS   int
	AuthRateBurst int
}

// NewRouter creates a chi router with all API routes registered. Authentication
// attaches the principal to the context; the authorization guard then enforces
// the route policy, so handlers never re-check access themselves.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing("restaurant"))
	r.Use(middleware.PrometheusMetrics("restaurant"))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Authenticate(tokenValidator(cfg.JWT)))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(AuthzGuard(cfg.Policy, cfg.Logger))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(cfg.Accounts, cfg.Logger)
	accountHandler := NewAccountHandler(cfg.Accounts, cfg.Gate, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.Accounts, cfg.Logger)
	restaurantHandler := NewRestaurantHandler(cfg.Restaurants, cfg.Logger)
	menuHandler := NewMenuHandler(cfg.Menus, cfg.Logger)
	orderHandler := NewOrderHandler(cfg.Orders, cfg.Accounts, cfg.Logger)
	decisionHandler := NewOrderDecisionHandler(cfg.Decisions, cfg.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public account lifecycle, additionally throttled per client IP.
		r.Group(func(r chi.Router) {
			r.Use(middleware.IPRateLimit(cfg.AuthRateRPS, cfg.AuthRateBurst, cfg.Logger))

			r.Post("/register", authHandler.Register)
			r.Post("/activate", authHandler.Activate)
			r.Post("/authenticate", authHandler.Authenticate)
			r.Post("/account/reset-password/init", authHandler.ResetPasswordInit)
			r.Post("/account/reset-password/finish", authHandler.ResetPasswordFinish)
		})

		r.Get("/account", accountHandler.Get)
		r.Post("/account", accountHandler.UpdateProfile)
		r.Post("/account/change-password", accountHandler.ChangePassword)

		r.Get("/admin/users/{username}", adminHandler.GetUser)

		r.Post("/restaurants", restaurantHandler.Create)
		r.Get("/restaurants", restaurantHandler.List)

		r.Post("/menus", menuHandler.Create)
		r.Get("/menus", menuHandler.List)

		r.Post("/orders", orderHandler.Create)
		r.Get("/orders", orderHandler.List)

		r.Post("/order-decisions", decisionHandler.Create)
		r.Get("/order-decisions", decisionHandler.List)
	})

	return r
}

// tokenValidator bridges the JWT manager to the authentication middleware.
func tokenValidator(jwt *auth.JWTManager) middleware.TokenValidator {
	return func(token string) (string, []string, error) {
		claims, err := jwt.Verify(token)
		if err != nil {
			return "", nil, err
		}
		return claims.Username, claims.Roles, nil
	}
}
