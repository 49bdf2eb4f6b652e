package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/enkitstudio/restaurant/internal/domain"
	"github.com/enkitstudio/restaurant/internal/repository"
	apperrors "github.com/enkitstudio/restaurant/pkg/errors"
)

// RestaurantService handles restaurant creation and listing.
type RestaurantService struct {
	restaurants repository.RestaurantRepository
	logger      *slog.Logger
}

// NewRestaurantService creates the restaurant service.
func NewRestaurantService(restaurants repository.RestaurantRepository, logger *slog.Logger) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, logger: logger}
}

// Create persists a new restaurant.
func (s *RestaurantService) Create(ctx context.Context, name string) (*domain.Restaurant, error) {
	rest := &domain.Restaurant{Name: name}
	if err := s.restaurants.Create(ctx, rest); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "restaurant created", slog.Int64("restaurant_id", rest.ID))
	return rest, nil
}

// List returns all restaurants.
func (s *RestaurantService) List(ctx context.Context) ([]domain.Restaurant, error) {
	return s.restaurants.List(ctx)
}

// MenuService handles menu creation and listing.
type MenuService struct {
	menus       repository.MenuRepository
	restaurants repository.RestaurantRepository
	logger      *slog.Logger
}

// NewMenuService creates the menu service.
func NewMenuService(menus repository.MenuRepository, restaurants repository.RestaurantRepository, logger *slog.Logger) *MenuService {
	return &MenuService{menus: menus, restaurants: restaurants, logger: logger}
}

// Create persists a new menu after verifying the restaurant exists.
func (s *MenuService) Create(ctx context.Context, name, description string, restaurantID int64) (*domain.Menu, error) {
	if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("restaurant does not exist")
		}
		return nil, err
	}

	menu := &domain.Menu{Name: name, Description: description, RestaurantID: restaurantID}
	if err := s.menus.Create(ctx, menu); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "menu created",
		slog.Int64("menu_id", menu.ID),
		slog.Int64("restaurant_id", restaurantID),
	)
	return menu, nil
}

// List returns all menus.
func (s *MenuService) List(ctx context.Context) ([]domain.Menu, error) {
	return s.menus.List(ctx)
}

// OrderService handles order placement and listing.
type OrderService struct {
	orders repository.OrderRepository
	menus  repository.MenuRepository
	logger *slog.Logger
}

// NewOrderService creates the order service.
func NewOrderService(orders repository.OrderRepository, menus repository.MenuRepository, logger *slog.Logger) *OrderService {
	return &OrderService{orders: orders, menus: menus, logger: logger}
}

// Create places an order for a menu on behalf of the customer. New orders
// always start in the QUEUED state.
func (s *OrderService) Create(ctx context.Context, menuID int64, customerID uuid.UUID) (*domain.Order, error) {
	if _, err := s.menus.GetByID(ctx, menuID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("menu does not exist")
		}
		return nil, err
	}

	order := &domain.Order{
		MenuID:     menuID,
		CustomerID: customerID,
		Status:     domain.OrderQueued,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "order placed",
		slog.Int64("order_id", order.ID),
		slog.Int64("menu_id", menuID),
	)
	return order, nil
}

// List returns all orders.
func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// OrderDecisionService records restaurant verdicts on orders.
type OrderDecisionService struct {
	decisions repository.OrderDecisionRepository
	orders    repository.OrderRepository
	logger    *slog.Logger
}

// NewOrderDecisionService creates the decision service.
func NewOrderDecisionService(decisions repository.OrderDecisionRepository, orders repository.OrderRepository, logger *slog.Logger) *OrderDecisionService {
	return &OrderDecisionService{decisions: decisions, orders: orders, logger: logger}
}

// Create records a decision for a queued order. Orders that have already been
// decided or progressed cannot be decided again.
func (s *OrderDecisionService) Create(ctx context.Context, orderID, restaurantID int64, status domain.DecisionStatus) (*domain.OrderDecision, error) {
	if !status.Valid() {
		return nil, apperrors.InvalidInput("decision status must be ACCEPTED or REJECTED")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("order", fmt.Sprintf("%d", orderID))
		}
		return nil, err
	}
	if order.Status != domain.OrderQueued {
		return nil, apperrors.InvalidInput("order has already been decided")
	}

	decision := &domain.OrderDecision{
		OrderID:      orderID,
		RestaurantID: restaurantID,
		Status:       status,
	}
	if err := s.decisions.Create(ctx, decision); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "order decision recorded",
		slog.Int64("order_id", orderID),
		slog.String("status", string(status)),
	)
	return decision, nil
}

// List returns all decisions.
func (s *OrderDecisionService) List(ctx context.Context) ([]domain.OrderDecision, error) {
	return s.decisions.List(ctx)
}
