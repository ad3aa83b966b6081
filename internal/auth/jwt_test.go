package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminJWTRoundTrip(t *testing.T) {
	token, err := GenerateAdminJWT("test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, ValidateAdminJWT("test-secret", token))
}

func TestAdminJWTWrongSecretRejected(t *testing.T) {
	token, err := GenerateAdminJWT("test-secret")
	require.NoError(t, err)

	assert.Error(t, ValidateAdminJWT("other-secret", token))
}

func TestAdminJWTGarbageRejected(t *testing.T) {
	assert.Error(t, ValidateAdminJWT("test-secret", "not.a.token"))
}
