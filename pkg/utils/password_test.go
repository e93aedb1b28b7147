package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPassword("same password")
	require.NoError(t, err)
	b, err := HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordBadFormat(t *testing.T) {
	_, err := VerifyPassword("anything", "not-a-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("anything", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA")
	assert.Error(t, err)
}
