package handler

import (
	"errors"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// AddFavorite 收藏菜谱
// @Summary 收藏菜谱
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 201 {object} response.Response{data=dto.RecipeShortInfo} "收藏成功"
// @Failure 400 {object} response.ErrorResponse "已收藏"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id}/favorite [post]
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	h.add(c, h.favoriteService.AddFavorite)
}

// RemoveFavorite 取消收藏
// @Summary 取消收藏
// @Tags 收藏
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 204 "取消成功"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在或未收藏"
// @Router /recipes/{id}/favorite [delete]
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	h.remove(c, h.favoriteService.RemoveFavorite)
}

// AddToCart 加入购物车
// @Summary 加入购物车
// @Tags 购物车
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 201 {object} response.Response{data=dto.RecipeShortInfo} "加入成功"
// @Failure 400 {object} response.ErrorResponse "已在购物车"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id}/shopping_cart [post]
func (h *FavoriteHandler) AddToCart(c *gin.Context) {
	h.add(c, h.favoriteService.AddToCart)
}

// RemoveFromCart 移出购物车
// @Summary 移出购物车
// @Tags 购物车
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 204 "移出成功"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在或不在购物车"
// @Router /recipes/{id}/shopping_cart [delete]
func (h *FavoriteHandler) RemoveFromCart(c *gin.Context) {
	h.remove(c, h.favoriteService.RemoveFromCart)
}

func (h *FavoriteHandler) add(c *gin.Context, fn func(userID, recipeID int64) (*dto.RecipeShortInfo, error)) {
	recipeID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrRecipeNotFound.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	info, err := fn(userID, recipeID)
	if err != nil {
		handleFavoriteError(c, err)
		return
	}

	response.Created(c, "added", info)
}

func (h *FavoriteHandler) remove(c *gin.Context, fn func(userID, recipeID int64) error) {
	recipeID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrRecipeNotFound.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	if err := fn(userID, recipeID); err != nil {
		handleFavoriteError(c, err)
		return
	}

	response.NoContent(c)
}

func handleFavoriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeAlreadyAdded):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrNotInFavorites),
		errors.Is(err, service.ErrNotInShoppingCart):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Favorite operation failed", zap.Error(err))
		response.InternalError(c, "operation failed, please try again later")
	}
}
