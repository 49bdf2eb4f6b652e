package domain

// Role is a capability tag attached to a principal at authentication time.
// Roles are embedded into session tokens and are immutable once issued.
type Role string

const (
	RoleUser       Role = "ROLE_USER"
	RoleRestaurant Role = "ROLE_RESTAURANT"
	RoleAdmin      Role = "ROLE_ADMIN"
)

// Valid reports whether the role is one of the known capability tags.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleRestaurant, RoleAdmin:
		return true
	}
	return false
}
