package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "b8a3c2267dc85f855dea9b46b452bf20"

func TestNewTokenGenerator(t *testing.T) {
	tg := NewTokenGenerator("secret", time.Hour, 7*24*time.Hour)

	require.NotNil(t, tg)
	assert.Equal(t, "secret", tg.secret)
	assert.Equal(t, time.Hour, tg.AccessTokenExpiry())
	assert.Equal(t, 7*24*time.Hour, tg.RefreshTokenExpiry())
}

func TestTokenGenerator_GenerateAndValidate(t *testing.T) {
	tg := NewTokenGenerator(testSecret, time.Hour, 24*time.Hour)
	userID := "65f1c0a2b3c4d5e6f7a8b9c0"

	accessToken, refreshToken, err := tg.GenerateTokens(userID, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	gotID, err := tg.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)

	gotID, err = tg.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
}

func TestTokenGenerator_RejectsWrongType(t *testing.T) {
	tg := NewTokenGenerator(testSecret, time.Hour, 24*time.Hour)

	accessToken, refreshToken, err := tg.GenerateTokens("65f1c0a2b3c4d5e6f7a8b9c0", "alice")
	require.NoError(t, err)

	_, err = tg.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "access")

	_, err = tg.ValidateRefreshToken(accessToken)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "refresh")
}

func TestTokenGenerator_ValidateErrors(t *testing.T) {
	tg := NewTokenGenerator(testSecret, time.Hour, 24*time.Hour)

	expired := NewTokenGenerator(testSecret, -time.Hour, -time.Hour)
	expiredAccess, _, err := expired.GenerateTokens("65f1c0a2b3c4d5e6f7a8b9c0", "alice")
	require.NoError(t, err)

	otherSecret := NewTokenGenerator("another-secret", time.Hour, time.Hour)
	foreignAccess, _, err := otherSecret.GenerateTokens("65f1c0a2b3c4d5e6f7a8b9c0", "alice")
	require.NoError(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	noUserToken, err := noUser.SignedString([]byte(testSecret))
	require.NoError(t, err)

	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"type":    "access",
		"user_id": "65f1c0a2b3c4d5e6f7a8b9c0",
	})
	unsigned, err := noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		errorContains string
	}{
		{"empty", "", "failed to parse token"},
		{"garbage", "not.a.jwt", "failed to parse token"},
		{"expired", expiredAccess, "failed to parse token"},
		{"wrong secret", foreignAccess, "failed to parse token"},
		{"missing user id", noUserToken, "user_id not found"},
		{"alg none", unsigned, "failed to parse token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := tg.ValidateAccessToken(tt.token)

			assert.Error(t, err)
			assert.Empty(t, userID)
			assert.True(t, strings.Contains(err.Error(), tt.errorContains), err.Error())
		})
	}
}
