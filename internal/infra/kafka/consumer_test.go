package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecipeEvent(t *testing.T) {
	sent := RecipeEvent{Type: RecipeUpdated, RecipeID: 12, AuthorID: 3, OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	payload, err := json.Marshal(sent)
	require.NoError(t, err)

	got, err := DecodeRecipeEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, sent, *got)
	assert.Equal(t, []byte("recipe-12"), got.Key())
}

func TestDecodeRecipeEventRejectsMalformed(t *testing.T) {
	_, err := DecodeRecipeEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeRecipeEvent([]byte(`{"type":"recipe.created"}`))
	assert.Error(t, err)

	_, err = DecodeRecipeEvent([]byte(`{"recipe_id":4}`))
	assert.Error(t, err)
}
