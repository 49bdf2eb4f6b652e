package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/enkitstudio/restaurant/internal/domain"
	"github.com/enkitstudio/restaurant/pkg/database"
	apperrors "github.com/enkitstudio/restaurant/pkg/errors"
)

// RestaurantRepository implements repository.RestaurantRepository using PostgreSQL.
type RestaurantRepository struct {
	pool database.DBTX
}

// NewRestaurantRepository creates a new PostgreSQL-backed restaurant repository.
func NewRestaurantRepository(pool database.DBTX) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

// Create inserts a new restaurant, assigning its ID.
func (r *RestaurantRepository) Create(ctx context.Context, rest *domain.Restaurant) error {
	now := time.Now().UTC()
	rest.CreatedAt = now
	rest.UpdatedAt = now

	err := r.pool.QueryRow(ctx,
		`INSERT INTO restaurants (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`,
		rest.Name, rest.CreatedAt, rest.UpdatedAt,
	).Scan(&rest.ID)
	if err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}

	return nil
}

// GetByID retrieves a restaurant by its ID.
func (r *RestaurantRepository) GetByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM restaurants WHERE id = $1`, id,
	).Scan(&rest.ID, &rest.Name, &rest.CreatedAt, &rest.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan restaurant: %w", err)
	}
	return &rest, nil
}

// List returns all restaurants, newest first.
func (r *RestaurantRepository) List(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM restaurants ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.CreatedAt, &rest.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan restaurant row: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurant rows: %w", err)
	}

	return restaurants, nil
}

// MenuRepository implements repository.MenuRepository using PostgreSQL.
type MenuRepository struct {
	pool database.DBTX
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool database.DBTX) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// Create inserts a new menu, assigning its ID.
func (r *MenuRepository) Create(ctx context.Context, m *domain.Menu) error {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	err := r.pool.QueryRow(ctx,
		`INSERT INTO menus (name, description, restaurant_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.Name, m.Description, m.RestaurantID, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert menu: %w", err)
	}

	return nil
}

// GetByID retrieves a menu by its ID.
func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*domain.Menu, error) {
	var m domain.Menu
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, restaurant_id, created_at, updated_at FROM menus WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Description, &m.RestaurantID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan menu: %w", err)
	}
	return &m, nil
}

// List returns all menus, newest first.
func (r *MenuRepository) List(ctx context.Context) ([]domain.Menu, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, restaurant_id, created_at, updated_at FROM menus ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	defer rows.Close()

	menus := []domain.Menu{}
	for rows.Next() {
		var m domain.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.RestaurantID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan menu row: %w", err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu rows: %w", err)
	}

	return menus, nil
}

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order, assigning its ID.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	err := r.pool.QueryRow(ctx,
		`INSERT INTO orders (menu_id, customer_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		o.MenuID, o.CustomerID, o.Status, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx,
		`SELECT id, menu_id, customer_id, status, created_at, updated_at FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.MenuID, &o.CustomerID, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, menu_id, customer_id, status, created_at, updated_at FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.MenuID, &o.CustomerID, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves an order to the given lifecycle status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", fmt.Sprintf("%d", id))
	}
	return nil
}

// OrderDecisionRepository implements repository.OrderDecisionRepository using PostgreSQL.
type OrderDecisionRepository struct {
	pool database.DBTX
}

// NewOrderDecisionRepository creates a new PostgreSQL-backed decision repository.
func NewOrderDecisionRepository(pool database.DBTX) *OrderDecisionRepository {
	return &OrderDecisionRepository{pool: pool}
}

// Create records a decision and moves the order to the matching status in one
// transaction, so a decision and its order can never disagree.
func (r *OrderDecisionRepository) Create(ctx context.Context, d *domain.OrderDecision) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	d.CreatedAt = time.Now().UTC()

	err = tx.QueryRow(ctx,
		`INSERT INTO order_decisions (order_id, restaurant_id, status, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		d.OrderID, d.RestaurantID, d.Status, d.CreatedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("insert order decision: %w", err)
	}

	ct, err := tx.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		domain.OrderStatus(d.Status), d.CreatedAt, d.OrderID,
	)
	if err != nil {
		return fmt.Errorf("apply decision to order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", fmt.Sprintf("%d", d.OrderID))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// List returns all decisions, newest first.
func (r *OrderDecisionRepository) List(ctx context.Context) ([]domain.OrderDecision, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, restaurant_id, status, created_at FROM order_decisions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list order decisions: %w", err)
	}
	defer rows.Close()

	decisions := []domain.OrderDecision{}
	for rows.Next() {
		var d domain.OrderDecision
		if err := rows.Scan(&d.ID, &d.OrderID, &d.RestaurantID, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order decision row: %w", err)
		}
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order decision rows: %w", err)
	}

	return decisions, nil
}
