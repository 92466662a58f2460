package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, "pw123", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("pw123")
	require.NoError(t, err)
	second, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(string(make([]byte, 73)))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "pw123"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	err := CheckPassword("not-a-bcrypt-hash", "pw123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}
