package service

import (
	"testing"

	"foodgram-go/internal/model"
	"foodgram-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetAndList(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")
	testutil.CreateUser(t, f.db, "carol")

	_, err := f.relations.Subscribe(alice.ID, bob.ID, 0)
	require.NoError(t, err)

	info, err := f.users.GetUser(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, info.IsSubscribed)

	anon, err := f.users.GetUser(0, bob.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)

	_, err = f.users.GetUser(0, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	page, err := f.users.ListUsers(alice.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "alice", page.Results[0].Username)
	assert.True(t, page.Results[1].IsSubscribed)
	require.NotNil(t, page.Next)
	assert.Equal(t, 2, *page.Next)
}

func TestUserService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	c := seedCatalog(t, f)
	admin := testutil.CreateAdmin(t, f.db, "boss")
	author := testutil.CreateUser(t, f.db, "chef")
	fan := testutil.CreateUser(t, f.db, "fan")
	recipe := testutil.CreateRecipe(t, f.db, author.ID, "Soup", []*model.Tag{c.lunch}, map[int64]int{c.salt.ID: 3})

	_, err := f.favorites.AddFavorite(fan.ID, recipe.ID)
	require.NoError(t, err)
	_, err = f.relations.Subscribe(fan.ID, author.ID, 0)
	require.NoError(t, err)

	isAdmin, err := f.users.IsAdmin(admin.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
	isAdmin, err = f.users.IsAdmin(fan.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, f.users.DeleteUser(author.ID))
	assert.ErrorIs(t, f.users.DeleteUser(author.ID), ErrUserNotFound)
	assert.Equal(t, []string{recipe.Image}, f.images.deleted)

	_, err = f.recipes.Get(recipe.ID, 0)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	for _, m := range []interface{}{&model.Recipe{}, &model.Favorite{}, &model.Follow{}} {
		var count int64
		require.NoError(t, f.db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
}
