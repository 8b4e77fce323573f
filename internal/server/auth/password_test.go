package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret12", DefaultBcryptCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret12", hash)

	assert.NoError(t, VerifyPassword("secret12", hash))
	assert.Error(t, VerifyPassword("secret13", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	// Two hashes of the same input must differ (random salt), and both
	// must still verify.
	h1, err := HashPassword("secret12", DefaultBcryptCost)
	require.NoError(t, err)
	h2, err := HashPassword("secret12", DefaultBcryptCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.NoError(t, VerifyPassword("secret12", h1))
	assert.NoError(t, VerifyPassword("secret12", h2))
}

func TestHashPasswordZeroCost(t *testing.T) {
	hash, err := HashPassword("secret12", 0)
	require.NoError(t, err)
	assert.NoError(t, VerifyPassword("secret12", hash))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.Error(t, VerifyPassword("secret12", "not-a-bcrypt-hash"))
}
