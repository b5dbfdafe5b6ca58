package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pitchside/academy-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", AccessTokenTTL: 15 * time.Minute}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateAccessToken(cfg, "USR00AAAAA", "coach")
	require.NoError(t, err)

	claims, err := ParseAndValidateToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "USR00AAAAA", claims.UserID)
	assert.Equal(t, "coach", claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(testConfig(), "USR00AAAAA", "parent")
	require.NoError(t, err)

	_, err = ParseAndValidateToken(&config.Config{JWTSecret: "other-secret"}, token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", AccessTokenTTL: -time.Minute}
	token, err := GenerateAccessToken(cfg, "USR00AAAAA", "parent")
	require.NoError(t, err)

	_, err = ParseAndValidateToken(cfg, token)
	assert.Error(t, err)
}

func TestParseRejectsUnsignedToken(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "USR00AAAAA"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAndValidateToken(testConfig(), raw)
	assert.Error(t, err)
}
