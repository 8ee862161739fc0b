package service

import (
	"errors"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrRecipeAlreadyAdded = errors.New("recipe already added")
	ErrNotInFavorites     = errors.New("recipe is not in favorites")
	ErrNotInShoppingCart  = errors.New("recipe is not in the shopping cart")
)

// FavoriteService 收藏与购物车，两者语义一致，只是存储表不同
type FavoriteService struct {
	favoriteRepo *repository.FavoriteRepository
	cartRepo     *repository.ShoppingCartRepository
	recipeRepo   *repository.RecipeRepository
}

func NewFavoriteService(
	favoriteRepo *repository.FavoriteRepository,
	cartRepo *repository.ShoppingCartRepository,
	recipeRepo *repository.RecipeRepository,
) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, cartRepo: cartRepo, recipeRepo: recipeRepo}
}

// userRecipeRelation 收藏/购物车共用的存在性检查与增删
type userRecipeRelation struct {
	exists      func(userID, recipeID int64) (bool, error)
	create      func(userID, recipeID int64) error
	remove      func(userID, recipeID int64) (bool, error)
	errNotFound error
}

func (s *FavoriteService) favorites() userRecipeRelation {
	return userRecipeRelation{
		exists: s.favoriteRepo.Exists,
		create: func(userID, recipeID int64) error {
			_, err := s.favoriteRepo.Create(userID, recipeID)
			return err
		},
		remove:      s.favoriteRepo.Delete,
		errNotFound: ErrNotInFavorites,
	}
}

func (s *FavoriteService) cart() userRecipeRelation {
	return userRecipeRelation{
		exists: s.cartRepo.Exists,
		create: func(userID, recipeID int64) error {
			_, err := s.cartRepo.Create(userID, recipeID)
			return err
		},
		remove:      s.cartRepo.Delete,
		errNotFound: ErrNotInShoppingCart,
	}
}

// AddFavorite 收藏菜谱
func (s *FavoriteService) AddFavorite(userID, recipeID int64) (*dto.RecipeShortInfo, error) {
	return s.add(s.favorites(), userID, recipeID)
}

// RemoveFavorite 取消收藏
func (s *FavoriteService) RemoveFavorite(userID, recipeID int64) error {
	return s.remove(s.favorites(), userID, recipeID)
}

// AddToCart 加入购物车
func (s *FavoriteService) AddToCart(userID, recipeID int64) (*dto.RecipeShortInfo, error) {
	return s.add(s.cart(), userID, recipeID)
}

// RemoveFromCart 移出购物车
func (s *FavoriteService) RemoveFromCart(userID, recipeID int64) error {
	return s.remove(s.cart(), userID, recipeID)
}

func (s *FavoriteService) add(rel userRecipeRelation, userID, recipeID int64) (*dto.RecipeShortInfo, error) {
	recipe, err := s.findRecipe(recipeID)
	if err != nil {
		return nil, err
	}

	exists, err := rel.exists(userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRecipeAlreadyAdded
	}

	if err := rel.create(userID, recipeID); err != nil {
		// 并发插入输给了另一请求时唯一索引报错
		if again, checkErr := rel.exists(userID, recipeID); checkErr == nil && again {
			return nil, ErrRecipeAlreadyAdded
		}
		return nil, err
	}

	info := ToRecipeShortInfo(recipe)
	return &info, nil
}

func (s *FavoriteService) remove(rel userRecipeRelation, userID, recipeID int64) error {
	if _, err := s.findRecipe(recipeID); err != nil {
		return err
	}

	deleted, err := rel.remove(userID, recipeID)
	if err != nil {
		return err
	}
	if !deleted {
		return rel.errNotFound
	}
	return nil
}

func (s *FavoriteService) findRecipe(recipeID int64) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.GetPlain(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}
