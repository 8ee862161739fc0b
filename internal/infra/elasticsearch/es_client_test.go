package elasticsearch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHosts(t *testing.T) {
	got := normalizeHosts([]string{" es1:9200 ", "", "https://es2:9200", "http://es3"})
	assert.Equal(t, []string{"http://es1:9200", "https://es2:9200", "http://es3"}, got)
	assert.Empty(t, normalizeHosts(nil))
}

func TestCallsWithoutClient(t *testing.T) {
	assert.False(t, Ready())

	_, err := Search(context.Background(), "recipes", strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, _, err = SearchRecipeIDs(context.Background(), "recipes", map[string]interface{}{})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = IndicesExists(context.Background(), "recipes")
	assert.ErrorIs(t, err, ErrNotInitialized)
}
