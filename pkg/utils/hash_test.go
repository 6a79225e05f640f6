package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret-123")
	require.NoError(t, err)
	require.NotEqual(t, "super-secret-123", hash)

	assert.True(t, CheckPassword("super-secret-123", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("whatever", "not-a-bcrypt-digest"))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
