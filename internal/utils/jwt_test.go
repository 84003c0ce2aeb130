package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	tok, err := GenerateJWT(42, 3, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, uint(3), claims.TokenVersion)
}

func TestJWTMissingSecret(t *testing.T) {
	_, err := GenerateJWT(1, 0, "", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = ParseJWT("anything", "")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestJWTWrongSecret(t *testing.T) {
	tok, err := GenerateJWT(1, 0, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(tok, "other")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	tok, err := GenerateJWT(1, 0, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(tok, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTRejectsTokenWithoutExpiry(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseJWT(tok, "secret")
	assert.Error(t, err)
}

func TestJWTRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseJWT(tok, "secret")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Passw0rd1", 4)
	require.NoError(t, err)

	assert.NotEqual(t, "Passw0rd1", hash)
	assert.True(t, CheckPassword(hash, "Passw0rd1"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
