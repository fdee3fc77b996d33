package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPasswordHash("pw1", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestHashPasswordIsSalted(t *testing.T) {
	h1, err := HashPassword("pw1")
	require.NoError(t, err)
	h2, err := HashPassword("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
