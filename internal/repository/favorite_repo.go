package repository

import (
	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

// pairExists 收藏与购物车共用的 (user_id, recipe_id) 关系查询
func pairExists[T any](db *gorm.DB, userID, recipeID int64) (bool, error) {
	var count int64
	err := db.Model(new(T)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error
	return count > 0, err
}

func deletePair[T any](db *gorm.DB, userID, recipeID int64) (bool, error) {
	result := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(new(T))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func batchCheckPairs[T any](db *gorm.DB, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	if len(recipeIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var hitIDs []int64
	err := db.Model(new(T)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &hitIDs).Error
	if err != nil {
		return nil, err
	}

	hitSet := make(map[int64]bool, len(hitIDs))
	for _, id := range hitIDs {
		hitSet[id] = true
	}

	result := make(map[int64]bool, len(recipeIDs))
	for _, id := range recipeIDs {
		result[id] = hitSet[id]
	}
	return result, nil
}

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Create(userID, recipeID int64) (*model.Favorite, error) {
	fav := &model.Favorite{UserID: userID, RecipeID: recipeID}
	if err := r.db.Omit("User", "Recipe").Create(fav).Error; err != nil {
		return nil, err
	}
	return fav, nil
}

func (r *FavoriteRepository) Delete(userID, recipeID int64) (bool, error) {
	return deletePair[model.Favorite](r.db, userID, recipeID)
}

func (r *FavoriteRepository) Exists(userID, recipeID int64) (bool, error) {
	return pairExists[model.Favorite](r.db, userID, recipeID)
}

// BatchCheckFavorited 批量查询收藏状态
func (r *FavoriteRepository) BatchCheckFavorited(userID int64, recipeIDs []int64) (map[int64]bool, error) {
	return batchCheckPairs[model.Favorite](r.db, userID, recipeIDs)
}

type ShoppingCartRepository struct {
	db *gorm.DB
}

func NewShoppingCartRepository(db *gorm.DB) *ShoppingCartRepository {
	return &ShoppingCartRepository{db: db}
}

func (r *ShoppingCartRepository) Create(userID, recipeID int64) (*model.ShoppingCart, error) {
	item := &model.ShoppingCart{UserID: userID, RecipeID: recipeID}
	if err := r.db.Omit("User", "Recipe").Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ShoppingCartRepository) Delete(userID, recipeID int64) (bool, error) {
	return deletePair[model.ShoppingCart](r.db, userID, recipeID)
}

func (r *ShoppingCartRepository) Exists(userID, recipeID int64) (bool, error) {
	return pairExists[model.ShoppingCart](r.db, userID, recipeID)
}

// BatchCheckInCart 批量查询购物车状态
func (r *ShoppingCartRepository) BatchCheckInCart(userID int64, recipeIDs []int64) (map[int64]bool, error) {
	return batchCheckPairs[model.ShoppingCart](r.db, userID, recipeIDs)
}
