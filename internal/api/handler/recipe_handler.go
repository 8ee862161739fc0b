package handler

import (
	"errors"
	"fmt"
	"net/http"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
}

func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// Create 创建菜谱
// @Summary 创建菜谱
// @Description image 为 base64 data URI
// @Tags 菜谱
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecipeRequest true "菜谱"
// @Success 201 {object} response.Response{data=dto.RecipeInfo} "创建成功"
// @Failure 400 {object} response.ErrorResponse "校验失败"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /recipes [post]
func (h *RecipeHandler) Create(c *gin.Context) {
	var req dto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingFailed(c, err)
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	info, err := h.recipeService.Create(userID, &req)
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	response.Created(c, "recipe created", info)
}

// Get 菜谱详情
// @Summary 菜谱详情
// @Tags 菜谱
// @Produce json
// @Param id path int true "菜谱ID"
// @Success 200 {object} response.Response{data=dto.RecipeInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id} [get]
func (h *RecipeHandler) Get(c *gin.Context) {
	recipeID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrRecipeNotFound.Error())
		return
	}

	info, err := h.recipeService.Get(recipeID, middleware.ViewerID(c))
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	response.OK(c, "ok", info)
}

// List 菜谱列表
// @Summary 菜谱列表
// @Description 按发布时间倒序；is_favorited/is_in_shopping_cart 只对登录用户生效
// @Tags 菜谱
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(6)
// @Param tags query []string false "标签 slug，可重复" collectionFormat(multi)
// @Param author query int false "作者ID"
// @Param is_favorited query int false "只看已收藏 (1)"
// @Param is_in_shopping_cart query int false "只看购物车 (1)"
// @Success 200 {object} response.Response{data=dto.Page[dto.RecipeInfo]} "获取成功"
// @Router /recipes [get]
func (h *RecipeHandler) List(c *gin.Context) {
	var query dto.RecipeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindingFailed(c, err)
		return
	}
	page, limit := parsePagination(c)

	data, err := h.recipeService.List(middleware.ViewerID(c), &query, page, limit)
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	response.OK(c, "ok", data)
}

// Update 更新菜谱
// @Summary 更新菜谱（作者或管理员）
// @Description 标签和食材按整体替换，image 省略时保留原图
// @Tags 菜谱
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Param request body dto.RecipeRequest true "菜谱"
// @Success 200 {object} response.Response{data=dto.RecipeInfo} "更新成功"
// @Failure 400 {object} response.ErrorResponse "校验失败"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id} [patch]
func (h *RecipeHandler) Update(c *gin.Context) {
	recipeID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrRecipeNotFound.Error())
		return
	}

	var req dto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingFailed(c, err)
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	info, err := h.recipeService.Update(userID, recipeID, &req)
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	response.OK(c, "recipe updated", info)
}

// Delete 删除菜谱
// @Summary 删除菜谱（作者或管理员）
// @Tags 菜谱
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 204 "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id} [delete]
func (h *RecipeHandler) Delete(c *gin.Context) {
	recipeID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrRecipeNotFound.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	if err := h.recipeService.Delete(userID, recipeID); err != nil {
		handleRecipeError(c, err)
		return
	}

	response.NoContent(c)
}

// DownloadShoppingCart 下载购物清单
// @Summary 下载购物清单
// @Description 购物车中全部菜谱的食材按名称和单位汇总
// @Tags 购物车
// @Produce plain
// @Security BearerAuth
// @Success 200 {string} string "购物清单文本"
// @Router /recipes/download_shopping_cart [get]
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	text, err := h.recipeService.ShoppingList(userID)
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ShoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func handleRecipeError(c *gin.Context, err error) {
	if handleValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrRecipeForbidden):
		response.Forbidden(c, err.Error())
	default:
		logger.Error("Recipe operation failed", zap.Error(err))
		response.InternalError(c, "operation failed, please try again later")
	}
}
