package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Passw0rd!")
	require.NoError(t, err)
	require.NotEqual(t, "Passw0rd!", hash)

	assert.True(t, h.Verify("Passw0rd!", hash))
	assert.False(t, h.Verify("wrong-password", hash))
}

func TestBcryptHasher_DistinctHashesPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	h1, err := h.Hash("Passw0rd!")
	require.NoError(t, err)
	h2, err := h.Hash("Passw0rd!")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	h := NewBcryptHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
