package authz

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/enkitstudio/restaurant/internal/domain"
)

func TestDefaultPolicy_PublicRoutes(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/register"},
		{http.MethodPost, "/api/activate"},
		{http.MethodPost, "/api/authenticate"},
		{http.MethodPost, "/api/account/reset-password/init"},
		{http.MethodPost, "/api/account/reset-password/finish"},
		{http.MethodGet, "/health/live"},
		{http.MethodGet, "/metrics"},
		{http.MethodOptions, "/api/orders"},
	}

	for _, tt := range tests {
		assert.Equal(t, Allow, p.Evaluate(tt.method, tt.path, "", nil),
			"%s %s should be public", tt.method, tt.path)
	}
}

func TestDefaultPolicy_UnmatchedRouteRequiresAuth(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, DenyAnonymous, p.Evaluate(http.MethodGet, "/something/else", "", nil))
	assert.Equal(t, Allow, p.Evaluate(http.MethodGet, "/something/else", "alice", []string{"ROLE_USER"}))
}

func TestDefaultPolicy_AccountRequiresAuth(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, DenyAnonymous, p.Evaluate(http.MethodGet, "/api/account", "", nil))
	assert.Equal(t, Allow, p.Evaluate(http.MethodGet, "/api/account", "alice", []string{"ROLE_USER"}))
}

func TestDefaultPolicy_OrderRoleGates(t *testing.T) {
	p := DefaultPolicy()

	// Customers create orders; restaurants list them.
	assert.Equal(t, Allow, p.Evaluate(http.MethodPost, "/api/orders", "alice", []string{"ROLE_USER"}))
	assert.Equal(t, DenyRole, p.Evaluate(http.MethodPost, "/api/orders", "bistro", []string{"ROLE_RESTAURANT"}))
	assert.Equal(t, Allow, p.Evaluate(http.MethodGet, "/api/orders", "bistro", []string{"ROLE_RESTAURANT"}))
	assert.Equal(t, DenyRole, p.Evaluate(http.MethodGet, "/api/orders", "alice", []string{"ROLE_USER"}))
	assert.Equal(t, DenyAnonymous, p.Evaluate(http.MethodPost, "/api/orders", "", nil))
}

func TestDefaultPolicy_AdminSubtree(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, Allow, p.Evaluate(http.MethodGet, "/api/admin/users", "root", []string{"ROLE_ADMIN"}))
	assert.Equal(t, DenyRole, p.Evaluate(http.MethodGet, "/api/admin/users", "alice", []string{"ROLE_USER"}))
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	p := NewPolicy([]Rule{
		{Pattern: "/api/thing", Access: Public},
		{Pattern: "/api/**", Access: RequireRole(domain.RoleAdmin)},
	})

	assert.Equal(t, Allow, p.Evaluate(http.MethodGet, "/api/thing", "", nil))
	assert.Equal(t, DenyAnonymous, p.Evaluate(http.MethodGet, "/api/other", "", nil))
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/api/orders", "/api/orders", true},
		{"/api/orders", "/api/orders/1", false},
		{"/api/*", "/api/orders", true},
		{"/api/*", "/api/orders/1", false},
		{"/api/**", "/api/orders/1", true},
		{"/api/**", "/api", true},
		{"/**", "/anything/at/all", true},
		{"/**", "/", true},
		{"/api/admin/**", "/api/admin", true},
		{"/api/admin/**", "/api/adminx", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchPattern(tt.pattern, tt.path), "pattern %q path %q", tt.pattern, tt.path)
	}
}
