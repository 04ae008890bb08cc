package user_test

import (
	"testing"

	"github.com/amirasaad/pledgepool/pkg/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHashesPassword(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	u, err := user.New("alice@example.com", "Alice", "Doe", "secret123")
	require.NoError(t, err)
	assert.NotEqual("secret123", u.Password)
	assert.True(u.CheckPassword("secret123"))
	assert.False(u.CheckPassword("wrong"))
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := user.New("not-an-email", "Alice", "Doe", "secret123")
	require.Error(t, err)

	_, err = user.New("alice@example.com", "", "Doe", "secret123")
	require.Error(t, err)

	_, err = user.New("alice@example.com", "Alice", "Doe", "short")
	require.Error(t, err)
}
