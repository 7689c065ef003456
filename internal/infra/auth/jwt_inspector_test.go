package auth

import (
	"testing"
	"time"

	"tiffin/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) entity.Credential {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)

	return entity.Credential(token)
}

func TestJWTInspector_ReadsRoleAndExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	credential := signedToken(t, jwt.MapClaims{
		"sub":  "42",
		"role": "restaurant",
		"exp":  exp.Unix(),
	})

	claims, err := NewJWTInspector().Inspect(credential)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, entity.RoleVendor, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, exp.Equal(*claims.ExpiresAt))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Second)))
}

func TestJWTInspector_RolesArrayFallback(t *testing.T) {
	credential := signedToken(t, jwt.MapClaims{
		"roles": []string{"unknown", "rider"},
	})

	claims, err := NewJWTInspector().Inspect(credential)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleRider, claims.Role)
	assert.Nil(t, claims.ExpiresAt)
	assert.False(t, claims.Expired(time.Now()))
}

func TestJWTInspector_ExpiredTokenStillInspected(t *testing.T) {
	credential := signedToken(t, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	claims, err := NewJWTInspector().Inspect(credential)
	require.NoError(t, err)
	assert.True(t, claims.Expired(time.Now()))
}

func TestJWTInspector_RejectsGarbage(t *testing.T) {
	_, err := NewJWTInspector().Inspect("not-a-jwt")
	require.Error(t, err)
}
