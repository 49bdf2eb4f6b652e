package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/enkitstudio/restaurant/internal/auth"
	"github.com/enkitstudio/restaurant/internal/authz"
	"github.com/enkitstudio/restaurant/internal/config"
	"github.com/enkitstudio/restaurant/internal/event"
	handler "github.com/enkitstudio/restaurant/internal/handler/http"
	"github.com/enkitstudio/restaurant/internal/ratelimit"
	"github.com/enkitstudio/restaurant/internal/repository/postgres"
	"github.com/enkitstudio/restaurant/internal/service"
	"github.com/enkitstudio/restaurant/migrations"
	"github.com/enkitstudio/restaurant/pkg/database"
	"github.com/enkitstudio/restaurant/pkg/health"
	pkgkafka "github.com/enkitstudio/restaurant/pkg/kafka"
	"github.com/enkitstudio/restaurant/pkg/middleware"
	"github.com/enkitstudio/restaurant/pkg/tracing"
)

// App wires together all dependencies and runs the restaurant API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "restaurant",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", pgCfg.Host),
		slog.Int("port", pgCfg.Port),
		slog.String("database", pgCfg.DBName),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	userRepo := postgres.NewUserRepository(pool)
	restaurantRepo := postgres.NewRestaurantRepository(pool)
	menuRepo := postgres.NewMenuRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	decisionRepo := postgres.NewOrderDecisionRepository(pool)
	notifier := event.NewProducer(producer, logger)

	accountService := service.NewAccountService(userRepo, hasher, jwtManager, notifier, logger)
	restaurantService := service.NewRestaurantService(restaurantRepo, logger)
	menuService := service.NewMenuService(menuRepo, restaurantRepo, logger)
	orderService := service.NewOrderService(orderRepo, menuRepo, logger)
	decisionService := service.NewOrderDecisionService(decisionRepo, orderRepo, logger)

	gate := ratelimit.NewGate(map[ratelimit.Operation]ratelimit.BucketConfig{
		ratelimit.OpProfileUpdate: {
			Capacity:       cfg.ProfileUpdateCapacity,
			RefillRate:     cfg.ProfileUpdateRefill,
			RefillInterval: cfg.RateRefillInterval,
		},
		ratelimit.OpPasswordChange: {
			Capacity:       cfg.PasswordChangeCapacity,
			RefillRate:     cfg.PasswordChangeRefill,
			RefillInterval: cfg.RateRefillInterval,
		},
	})

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	router := handler.NewRouter(handler.RouterConfig{
		Accounts:    accountService,
		Restaurants: restaurantService,
		Menus:       menuService,
		Orders:      orderService,
		Decisions:   decisionService,
		JWT:         jwtManager,
		Policy:      authz.DefaultPolicy(),
		Gate:        gate,
		Health:      healthHandler,
		Logger:      logger,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		AuthRateRPS:   cfg.AuthRateRPS,
		AuthRateBurst: cfg.AuthRateBurst,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: drain in-flight HTTP
// requests, flush pending spans, close the Kafka producer, then close the
// connection pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
