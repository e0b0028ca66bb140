package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager("test-secret", 1, "vyapar-backend")

	token, err := m.Generate(42, "user@example.com", "accountant")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "accountant", claims.Role)
}

func TestVerifyWrongSecret(t *testing.T) {
	m1 := NewJWTManager("secret-one", 1, "vyapar-backend")
	m2 := NewJWTManager("secret-two", 1, "vyapar-backend")

	token, err := m1.Generate(1, "a@b.c", "staff")
	require.NoError(t, err)

	_, err = m2.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", 1, "vyapar-backend")
	_, err := m.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cure-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cure-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}
