package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/enkitstudio/restaurant/internal/domain"
)

// UserRepository is the user store. It is the single source of truth for
// identity uniqueness and token validity; callers never cache user records
// across requests.
type UserRepository interface {
	// Create inserts a new user. A username or email collision surfaces as
	// DuplicateIdentity; the store's unique indexes are the source of truth
	// under concurrent registration.
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update overwrites the mutable profile fields and the password hash.
	Update(ctx context.Context, user *domain.User) error

	// SetResetToken overwrites the user's reset token, invalidating any prior
	// token so at most one is live per user.
	SetResetToken(ctx context.Context, userID uuid.UUID, token string) error

	// ConsumeActivationToken atomically finds the user holding the token,
	// marks the account activated, and clears the token. A token that is
	// unknown or already consumed yields InvalidToken; two concurrent uses of
	// the same token cannot both succeed.
	ConsumeActivationToken(ctx context.Context, token string) (*domain.User, error)

	// ConsumeResetToken atomically finds the user holding the reset token,
	// stores the new password hash, and clears the token. Same single-use
	// guarantees as ConsumeActivationToken.
	ConsumeResetToken(ctx context.Context, token, newPasswordHash string) (*domain.User, error)
}

// RestaurantRepository persists restaurants.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *domain.Restaurant) error
	GetByID(ctx context.Context, id int64) (*domain.Restaurant, error)
	List(ctx context.Context) ([]domain.Restaurant, error)
}

// MenuRepository persists menus.
type MenuRepository interface {
	Create(ctx context.Context, menu *domain.Menu) error
	GetByID(ctx context.Context, id int64) (*domain.Menu, error)
	List(ctx context.Context) ([]domain.Menu, error)
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// OrderDecisionRepository persists order decisions.
type OrderDecisionRepository interface {
	Create(ctx context.Context, decision *domain.OrderDecision) error
	List(ctx context.Context) ([]domain.OrderDecision, error)
}
