package services

import (
	"testing"

	"greensteps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticationRoundTrip(t *testing.T) {
	authentication, err := NewAuthentication("test-secret")
	require.NoError(t, err)

	token, err := authentication.CreateToken(&models.UserFromAuth{
		ID:        42,
		Email:     "dana@example.com",
		FirstName: "Dana",
		LastName:  "Kim",
		IsAdmin:   true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := authentication.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, "Dana", user.FirstName)
	assert.Equal(t, "Kim", user.LastName)
	assert.True(t, user.IsAdmin)
}

func TestAuthenticationRejectsWrongSecret(t *testing.T) {
	issuer, err := NewAuthentication("secret-a")
	require.NoError(t, err)

	token, err := issuer.CreateToken(&models.UserFromAuth{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)

	verifier, err := NewAuthentication("secret-b")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestAuthenticationRejectsGarbage(t *testing.T) {
	authentication, err := NewAuthentication("test-secret")
	require.NoError(t, err)

	_, err = authentication.Validate("not-a-token")
	assert.Error(t, err)
}
