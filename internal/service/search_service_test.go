package service

import (
	"context"
	"testing"

	infraES "foodgram-go/internal/infra/elasticsearch"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/model"
	"foodgram-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService_FallsBackToDatabase(t *testing.T) {
	f := newFixture(t)
	c := seedCatalog(t, f)
	author := testutil.CreateUser(t, f.db, "chef")
	viewer := testutil.CreateUser(t, f.db, "viewer")
	soup := testutil.CreateRecipe(t, f.db, author.ID, "Tomato soup", []*model.Tag{c.lunch}, map[int64]int{c.salt.ID: 1})
	testutil.CreateRecipe(t, f.db, author.ID, "Pancakes", []*model.Tag{c.breakfast}, map[int64]int{c.milk.ID: 200})

	_, err := f.favorites.AddFavorite(viewer.ID, soup.ID)
	require.NoError(t, err)

	page, err := f.search.SearchRecipes(viewer.ID, "  SOUP ", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, soup.ID, page.Results[0].ID)
	assert.True(t, page.Results[0].IsFavorited)

	all, err := f.search.SearchRecipes(0, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Count)
}

func TestSearchService_SyncRequiresIndex(t *testing.T) {
	f := newFixture(t)

	_, err := f.search.SyncAll()
	assert.ErrorIs(t, err, infraES.ErrNotInitialized)

	err = f.search.HandleRecipeEvent(context.Background(), &infraKafka.RecipeEvent{Type: infraKafka.RecipeDeleted, RecipeID: 1})
	assert.ErrorIs(t, err, infraES.ErrNotInitialized)
}

func TestBuildRecipeQuery(t *testing.T) {
	q := BuildRecipeQuery("soup", 3, 10)

	assert.Equal(t, 20, q["from"])
	assert.Equal(t, 10, q["size"])
	mm := q["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "soup", mm["query"])
	assert.Contains(t, mm["fields"], "name^3")
}
