package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity record. Accounts are created in a pending state with a
// live activation token and become active exactly once, when that token is
// consumed. Username is immutable after creation; username and email are each
// unique across all users.
type User struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Activated       bool      `json:"activated"`
	ActivationToken *string   `json:"-"`
	ResetToken      *string   `json:"-"`
	Roles           []string  `json:"roles"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}
