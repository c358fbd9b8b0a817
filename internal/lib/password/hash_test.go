package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manup-inc/sisterhood-backend/internal/lib/password"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := password.GetHash("secret-password")
	require.NoError(t, err)
	require.NotEqual(t, "secret-password", hash)

	assert.NoError(t, password.CompareHash(hash, "secret-password"))
	assert.Error(t, password.CompareHash(hash, "wrong-password"))
}
