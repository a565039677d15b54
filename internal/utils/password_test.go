package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("1234")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", hash)

	assert.True(t, h.Verify(hash, "1234"))
	assert.False(t, h.Verify(hash, "0000"))
	assert.False(t, h.Verify("not-a-hash", "1234"))
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	a, err := HashPassword("1234", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("1234", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
