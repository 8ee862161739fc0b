package redis

import (
	"context"
	"testing"

	"foodgram-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogKey(t *testing.T) {
	assert.Equal(t, "catalog:tags", CatalogKey("tags"))
	assert.Equal(t, "catalog:ingredients:sa", CatalogKey("ingredients", "sa"))
	assert.Equal(t, "catalog:", CatalogKey())
}

func TestDisabledClient(t *testing.T) {
	require.NoError(t, Init(&config.RedisConfig{Enabled: false}))

	assert.False(t, Ready())
	assert.Nil(t, Get())
	assert.ErrorIs(t, Ping(context.Background()), ErrDisabled)
	assert.NoError(t, Close())
}
