package repository

import (
	"testing"

	"foodgram-go/internal/model"
	"foodgram-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRecipeRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)

	author := testutil.CreateUser(t, db, "chef")
	breakfast := testutil.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast")
	lunch := testutil.CreateTag(t, db, "Lunch", "#49B64E", "lunch")
	eggs := testutil.CreateIngredient(t, db, "eggs", "pcs")
	milk := testutil.CreateIngredient(t, db, "milk", "ml")

	recipe := &model.Recipe{AuthorID: author.ID, Name: "Omelette", Image: "http://img/o.png", Text: "Beat and fry", CookingTime: 10}
	err := repo.Create(recipe, []int64{lunch.ID, breakfast.ID}, []model.RecipeIngredient{
		{IngredientID: eggs.ID, Amount: 3},
		{IngredientID: milk.ID, Amount: 50},
	})
	require.NoError(t, err)
	require.NotZero(t, recipe.ID)

	got, err := repo.GetByID(recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Omelette", got.Name)
	assert.Equal(t, "chef", got.Author.Username)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "Breakfast", got.Tags[0].Name)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "eggs", got.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 3, got.Ingredients[0].Amount)
	assert.Equal(t, 50, got.Ingredients[1].Amount)
}

func TestRecipeRepository_UpdateReplacesSets(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)

	author := testutil.CreateUser(t, db, "chef")
	t1 := testutil.CreateTag(t, db, "One", "#000001", "one")
	t2 := testutil.CreateTag(t, db, "Two", "#000002", "two")
	a := testutil.CreateIngredient(t, db, "a", "g")
	b := testutil.CreateIngredient(t, db, "b", "g")
	recipe := testutil.CreateRecipe(t, db, author.ID, "Soup", []*model.Tag{t1}, map[int64]int{a.ID: 5})

	err := repo.Update(recipe.ID, map[string]interface{}{"name": "Better soup"},
		[]int64{t2.ID}, []model.RecipeIngredient{{IngredientID: b.ID, Amount: 7}})
	require.NoError(t, err)

	got, err := repo.GetByID(recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Better soup", got.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, t2.ID, got.Tags[0].ID)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, b.ID, got.Ingredients[0].IngredientID)
	assert.Equal(t, 7, got.Ingredients[0].Amount)
}

func TestRecipeRepository_UpdateRollsBackOnFailure(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)

	author := testutil.CreateUser(t, db, "chef")
	tag := testutil.CreateTag(t, db, "One", "#000001", "one")
	a := testutil.CreateIngredient(t, db, "a", "g")
	recipe := testutil.CreateRecipe(t, db, author.ID, "Soup", []*model.Tag{tag}, map[int64]int{a.ID: 5})

	// 同一食材出现两次触发唯一索引冲突
	err := repo.Update(recipe.ID, nil, []int64{tag.ID}, []model.RecipeIngredient{
		{IngredientID: a.ID, Amount: 1},
		{IngredientID: a.ID, Amount: 2},
	})
	require.Error(t, err)

	got, err := repo.GetByID(recipe.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, 5, got.Ingredients[0].Amount)
	assert.Len(t, got.Tags, 1)
}

func TestRecipeRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)

	author := testutil.CreateUser(t, db, "chef")
	fan := testutil.CreateUser(t, db, "fan")
	tag := testutil.CreateTag(t, db, "One", "#000001", "one")
	a := testutil.CreateIngredient(t, db, "a", "g")
	recipe := testutil.CreateRecipe(t, db, author.ID, "Soup", []*model.Tag{tag}, map[int64]int{a.ID: 5})

	_, err := NewFavoriteRepository(db).Create(fan.ID, recipe.ID)
	require.NoError(t, err)
	_, err = NewShoppingCartRepository(db).Create(fan.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(recipe.ID))

	for _, m := range []interface{}{&model.Favorite{}, &model.ShoppingCart{}, &model.RecipeIngredient{}, &model.RecipeTag{}} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
	// 标签和食材本身保留
	var tags int64
	require.NoError(t, db.Model(&model.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(1), tags)

	assert.ErrorIs(t, repo.Delete(recipe.ID), gorm.ErrRecordNotFound)
}

func TestRecipeRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	breakfast := testutil.CreateTag(t, db, "Breakfast", "#000001", "breakfast")
	dinner := testutil.CreateTag(t, db, "Dinner", "#000002", "dinner")
	a := testutil.CreateIngredient(t, db, "a", "g")

	r1 := testutil.CreateRecipe(t, db, alice.ID, "Pancakes", []*model.Tag{breakfast}, map[int64]int{a.ID: 1})
	r2 := testutil.CreateRecipe(t, db, alice.ID, "Steak", []*model.Tag{dinner}, map[int64]int{a.ID: 1})
	r3 := testutil.CreateRecipe(t, db, bob.ID, "Porridge", []*model.Tag{breakfast, dinner}, map[int64]int{a.ID: 1})

	_, err := NewFavoriteRepository(db).Create(bob.ID, r1.ID)
	require.NoError(t, err)
	_, err = NewShoppingCartRepository(db).Create(bob.ID, r2.ID)
	require.NoError(t, err)

	all, total, err := repo.List(RecipeFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	// 最新的在前
	assert.Equal(t, r3.ID, all[0].ID)

	byTag, total, err := repo.List(RecipeFilter{TagSlugs: []string{"breakfast"}}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []int64{r1.ID, r3.ID}, ids(byTag))

	byAuthor, total, err := repo.List(RecipeFilter{AuthorID: alice.ID}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []int64{r1.ID, r2.ID}, ids(byAuthor))

	favorited, _, err := repo.List(RecipeFilter{FavoritedBy: bob.ID}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{r1.ID}, ids(favorited))

	inCart, _, err := repo.List(RecipeFilter{InCartOf: bob.ID, TagSlugs: []string{"dinner"}}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{r2.ID}, ids(inCart))

	page, total, err := repo.List(RecipeFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}

func TestRecipeRepository_ShoppingListAggregates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)
	carts := NewShoppingCartRepository(db)

	author := testutil.CreateUser(t, db, "chef")
	buyer := testutil.CreateUser(t, db, "buyer")
	tag := testutil.CreateTag(t, db, "One", "#000001", "one")
	salt := testutil.CreateIngredient(t, db, "Salt", "g")
	flour := testutil.CreateIngredient(t, db, "Flour", "g")
	saltPinch := testutil.CreateIngredient(t, db, "Salt", "pinch")

	r1 := testutil.CreateRecipe(t, db, author.ID, "Bread", []*model.Tag{tag}, map[int64]int{salt.ID: 5, flour.ID: 500})
	r2 := testutil.CreateRecipe(t, db, author.ID, "Pretzel", []*model.Tag{tag}, map[int64]int{salt.ID: 10, saltPinch.ID: 1})
	testutil.CreateRecipe(t, db, author.ID, "Not in cart", []*model.Tag{tag}, map[int64]int{salt.ID: 999})

	_, err := carts.Create(buyer.ID, r1.ID)
	require.NoError(t, err)
	_, err = carts.Create(buyer.ID, r2.ID)
	require.NoError(t, err)

	totals, err := repo.ShoppingList(buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, []IngredientTotal{
		{Name: "Flour", MeasurementUnit: "g", Amount: 500},
		{Name: "Salt", MeasurementUnit: "g", Amount: 15},
		{Name: "Salt", MeasurementUnit: "pinch", Amount: 1},
	}, totals)

	empty, err := repo.ShoppingList(author.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecipeRepository_AuthorHelpers(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	tag := testutil.CreateTag(t, db, "One", "#000001", "one")
	a := testutil.CreateIngredient(t, db, "a", "g")
	testutil.CreateRecipe(t, db, alice.ID, "First", []*model.Tag{tag}, map[int64]int{a.ID: 1})
	last := testutil.CreateRecipe(t, db, alice.ID, "Second", []*model.Tag{tag}, map[int64]int{a.ID: 1})

	latest, err := repo.ListByAuthor(alice.ID, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, last.ID, latest[0].ID)

	every, err := repo.ListByAuthor(alice.ID, 0)
	require.NoError(t, err)
	assert.Len(t, every, 2)

	counts, err := repo.CountByAuthors([]int64{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[alice.ID])
	assert.Equal(t, int64(0), counts[bob.ID])
}

func TestRecipeRepository_SearchByName(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)

	author := testutil.CreateUser(t, db, "chef")
	tag := testutil.CreateTag(t, db, "One", "#000001", "one")
	a := testutil.CreateIngredient(t, db, "a", "g")
	soup := testutil.CreateRecipe(t, db, author.ID, "Tomato Soup", []*model.Tag{tag}, map[int64]int{a.ID: 1})
	testutil.CreateRecipe(t, db, author.ID, "Salad", []*model.Tag{tag}, map[int64]int{a.ID: 1})

	found, total, err := repo.SearchByName("soup", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []int64{soup.ID}, ids(found))

	none, total, err := repo.SearchByName("100%", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func ids(recipes []model.Recipe) []int64 {
	out := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}
