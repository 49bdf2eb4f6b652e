package authz

import (
	"net/http"
	"strings"

	"github.com/enkitstudio/restaurant/internal/domain"
)

// Access is the requirement a rule places on a request.
type Access string

const (
	// Public routes bypass authentication entirely.
	Public Access = "public"
	// Authenticated routes require any valid principal.
	Authenticated Access = "authenticated"
)

// RequireRole returns an Access requiring the exact named role.
func RequireRole(role domain.Role) Access {
	return Access(role)
}

// Decision is the outcome of evaluating a request against the policy.
type Decision int

const (
	// Allow admits the request.
	Allow Decision = iota
	// DenyAnonymous rejects the request because no principal is present.
	DenyAnonymous
	// DenyRole rejects the request because the principal lacks the required role.
	DenyRole
)

// Rule matches a method and path pattern to an access requirement. An empty
// method matches all methods. Patterns are segment-wise: "*" matches exactly
// one segment, a trailing "**" matches any remainder (including none).
type Rule struct {
	Method  string
	Pattern string
	Access  Access
}

// Policy is a static, ordered rule table. The first matching rule wins; an
// unmatched route defaults to Authenticated, so anonymous access is always an
// explicit grant. Evaluation is pure and mutates nothing.
type Policy struct {
	rules []Rule
}

// NewPolicy creates a policy from an ordered rule list.
func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy returns the route table for the API surface. Registration,
// activation, login, and the password-reset flow are reachable anonymously;
// order placement and order listing are role-gated; everything else requires
// an authenticated principal.
func DefaultPolicy() *Policy {
	return NewPolicy([]Rule{
		{Method: http.MethodOptions, Pattern: "/**", Access: Public},
		{Pattern: "/health/**", Access: Public},
		{Pattern: "/metrics", Access: Public},
		{Method: http.MethodPost, Pattern: "/api/register", Access: Public},
		{Method: http.MethodPost, Pattern: "/api/activate", Access: Public},
		{Method: http.MethodPost, Pattern: "/api/authenticate", Access: Public},
		{Method: http.MethodPost, Pattern: "/api/account/reset-password/init", Access: Public},
		{Method: http.MethodPost, Pattern: "/api/account/reset-password/finish", Access: Public},
		{Pattern: "/api/admin/**", Access: RequireRole(domain.RoleAdmin)},
		{Method: http.MethodPost, Pattern: "/api/orders", Access: RequireRole(domain.RoleUser)},
		{Method: http.MethodGet, Pattern: "/api/orders", Access: RequireRole(domain.RoleRestaurant)},
		{Method: http.MethodPost, Pattern: "/api/order-decisions", Access: RequireRole(domain.RoleRestaurant)},
		{Method: http.MethodGet, Pattern: "/api/order-decisions", Access: RequireRole(domain.RoleRestaurant)},
		{Pattern: "/api/**", Access: Authenticated},
	})
}

// Evaluate returns the decision for a request. The principal is identified by
// username ("" means anonymous) and its role set.
func (p *Policy) Evaluate(method, path, username string, roles []string) Decision {
	access := Access(Authenticated)
	for _, r := range p.rules {
		if r.Method != "" && r.Method != method {
			continue
		}
		if matchPattern(r.Pattern, path) {
			access = r.Access
			break
		}
	}

	switch access {
	case Public:
		return Allow
	case Authenticated:
		if username == "" {
			return DenyAnonymous
		}
		return Allow
	default:
		if username == "" {
			return DenyAnonymous
		}
		for _, role := range roles {
			if role == string(access) {
				return Allow
			}
		}
		return DenyRole
	}
}

// matchPattern matches a path against a segment pattern. "*" matches exactly
// one segment; a trailing "**" matches any remainder, including none.
func matchPattern(pattern, path string) bool {
	pSegs := splitPath(pattern)
	aSegs := splitPath(path)

	for i, seg := range pSegs {
		if seg == "**" {
			// Trailing wildcard swallows the rest.
			return i == len(pSegs)-1
		}
		if i >= len(aSegs) {
			return false
		}
		if seg != "*" && seg != aSegs[i] {
			return false
		}
	}
	return len(pSegs) == len(aSegs)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
