package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func principalEcho(t *testing.T) (http.Handler, *string, *[]string) {
	t.Helper()
	var gotUser string
	var gotRoles []string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = PrincipalFromContext(r.Context())
		gotRoles = RolesFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &gotUser, &gotRoles
}

func TestAuthenticate_ValidToken(t *testing.T) {
	validate := func(token string) (string, []string, error) {
		assert.Equal(t, "good-token", token)
		return "alice", []string{"ROLE_USER"}, nil
	}

	inner, user, roles := principalEcho(t)
	handler := Authenticate(validate)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "alice", *user)
	assert.Equal(t, []string{"ROLE_USER"}, *roles)
}

func TestAuthenticate_NoTokenIsAnonymous(t *testing.T) {
	validate := func(token string) (string, []string, error) {
		t.Fatal("validator should not be called without a token")
		return "", nil, nil
	}

	inner, user, _ := principalEcho(t)
	handler := Authenticate(validate)(inner)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/restaurants", nil))

	assert.Empty(t, *user)
}

func TestAuthenticate_InvalidTokenIsAnonymous(t *testing.T) {
	validate := func(token string) (string, []string, error) {
		return "", nil, errors.New("token is expired")
	}

	inner, user, _ := principalEcho(t)
	handler := Authenticate(validate)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, *user)
}

func TestBearerToken_MalformedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, bearerToken(req))
}
