package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	util := NewJWTUtil("test-secret", time.Hour)

	token, err := util.GenerateToken("507f1f77bcf86cd799439011", "owner@example.com", "owner")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "jammanage", claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTUtil("secret-a", time.Hour).GenerateToken("id", "a@b.c", "staff")
	require.NoError(t, err)

	_, err = NewJWTUtil("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	util := NewJWTUtil("test-secret", -time.Minute)

	token, err := util.GenerateToken("id", "a@b.c", "owner")
	require.NoError(t, err)

	_, err = util.ValidateToken(token)
	assert.Error(t, err)
}

func TestRefreshKeepsFreshTokenUnchanged(t *testing.T) {
	util := NewJWTUtil("test-secret", 24*time.Hour)

	token, err := util.GenerateToken("id", "a@b.c", "owner")
	require.NoError(t, err)

	refreshed, err := util.RefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, token, refreshed)
}

func TestRefreshReissuesNearExpiry(t *testing.T) {
	util := NewJWTUtil("test-secret", 30*time.Minute)

	token, err := util.GenerateToken("id", "a@b.c", "owner")
	require.NoError(t, err)

	refreshed, err := util.RefreshToken(token)
	require.NoError(t, err)

	claims, err := util.ValidateToken(refreshed)
	require.NoError(t, err)
	assert.Equal(t, "id", claims.UserID)
}
