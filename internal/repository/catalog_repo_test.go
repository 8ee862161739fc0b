package repository

import (
	"testing"

	"foodgram-go/internal/model"
	"foodgram-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientRepository_PrefixFilter(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIngredientRepository(db)

	testutil.CreateIngredient(t, db, "sugar", "g")
	testutil.CreateIngredient(t, db, "Salt", "g")
	testutil.CreateIngredient(t, db, "salmon", "g")
	testutil.CreateIngredient(t, db, "basil", "g")

	found, err := repo.List("sa")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Salt", found[0].Name)
	assert.Equal(t, "salmon", found[1].Name)

	all, err := repo.List("  ")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := repo.List("_")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIngredientRepository_FirstOrCreate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIngredientRepository(db)

	first, created, err := repo.FirstOrCreate("flour", "g")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.FirstOrCreate("flour", "g")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	_, created, err = repo.FirstOrCreate("flour", "kg")
	require.NoError(t, err)
	assert.True(t, created)

	existing, err := repo.ExistingIDs([]int64{first.ID, first.ID + 100})
	require.NoError(t, err)
	assert.True(t, existing[first.ID])
	assert.False(t, existing[first.ID+100])

	dup, err := repo.Exists("flour", "kg")
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestTagRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)

	require.NoError(t, repo.Create(&model.Tag{Name: "Lunch", Color: "#49B64E", Slug: "lunch"}))
	breakfast := testutil.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast")

	tags, err := repo.List()
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)

	count, err := repo.CountByIDs([]int64{breakfast.ID, breakfast.ID + 100})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	conflict, err := repo.ExistsConflict("Other", "#E26C2D", "other")
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = repo.ExistsConflict("Dinner", "#000000", "dinner")
	require.NoError(t, err)
	assert.False(t, conflict)
}
