package utils

import (
	"testing"
	"time"

	"foodgram-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.JWT.Secret = "unit-test-secret"
	config.Set(cfg)
	t.Cleanup(func() { config.Set(nil) })
	return cfg
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, VerifyPassword("s3cret-pass", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestGenerateAndParseToken(t *testing.T) {
	setupConfig(t)

	token, claims, err := GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)

	parsed, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.Greater(t, parsed.RemainingTTL(time.Now()), time.Duration(0))
}

func TestGenerateTokenUniqueIDs(t *testing.T) {
	setupConfig(t)

	_, first, err := GenerateToken(1)
	require.NoError(t, err)
	_, second, err := GenerateToken(1)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	cfg := setupConfig(t)

	token, _, err := GenerateToken(7)
	require.NoError(t, err)

	cfg.JWT.Secret = "another-secret"
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	cfg := setupConfig(t)
	cfg.JWT.ExpireHours = -1

	token, _, err := GenerateToken(7)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseTokenGarbage(t *testing.T) {
	setupConfig(t)

	_, err := ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
