package domain

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is an establishment that owns menus and decides on orders.
type Restaurant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Menu is a dish offering created for a restaurant.
type Menu struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	RestaurantID int64     `json:"restaurant_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderQueued     OrderStatus = "QUEUED"
	OrderAccepted   OrderStatus = "ACCEPTED"
	OrderRejected   OrderStatus = "REJECTED"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
)

// Valid reports whether the status is a known lifecycle state.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderQueued, OrderAccepted, OrderRejected, OrderInProgress, OrderCompleted:
		return true
	}
	return false
}

// Order is placed by a customer for a menu. New orders start in QUEUED and
// move to ACCEPTED or REJECTED when the restaurant records a decision.
type Order struct {
	ID         int64       `json:"id"`
	MenuID     int64       `json:"menu_id"`
	CustomerID uuid.UUID   `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// DecisionStatus is the restaurant's verdict on an order.
type DecisionStatus string

const (
	DecisionAccepted DecisionStatus = "ACCEPTED"
	DecisionRejected DecisionStatus = "REJECTED"
)

// Valid reports whether the decision is a known verdict.
func (s DecisionStatus) Valid() bool {
	return s == DecisionAccepted || s == DecisionRejected
}

// OrderDecision records a restaurant's verdict on an order.
type OrderDecision struct {
	ID           int64          `json:"id"`
	OrderID      int64          `json:"order_id"`
	RestaurantID int64          `json:"restaurant_id"`
	Status       DecisionStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}
