package handler

import (
	"errors"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListTags 标签列表
// @Summary 标签列表
// @Tags 标签
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.TagInfo} "获取成功"
// @Router /tags [get]
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalogService.ListTags()
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, "ok", tags)
}

// GetTag 标签详情
// @Summary 标签详情
// @Tags 标签
// @Produce json
// @Param id path int true "标签ID"
// @Success 200 {object} response.Response{data=dto.TagInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "标签不存在"
// @Router /tags/{id} [get]
func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrTagNotFound.Error())
		return
	}

	tag, err := h.catalogService.GetTag(id)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, "ok", tag)
}

// CreateTag 创建标签
// @Summary 创建标签（管理员）
// @Tags 标签
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTagRequest true "标签"
// @Success 201 {object} response.Response{data=dto.TagInfo} "创建成功"
// @Failure 400 {object} response.ErrorResponse "校验失败或重复"
// @Router /tags [post]
func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingFailed(c, err)
		return
	}

	tag, err := h.catalogService.CreateTag(&req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.Created(c, "tag created", tag)
}

// ListIngredients 食材列表
// @Summary 食材列表
// @Description name 为不区分大小写的前缀过滤
// @Tags 食材
// @Produce json
// @Param name query string false "名称前缀"
// @Success 200 {object} response.Response{data=[]dto.IngredientInfo} "获取成功"
// @Router /ingredients [get]
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	items, err := h.catalogService.ListIngredients(c.Query("name"))
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, "ok", items)
}

// GetIngredient 食材详情
// @Summary 食材详情
// @Tags 食材
// @Produce json
// @Param id path int true "食材ID"
// @Success 200 {object} response.Response{data=dto.IngredientInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "食材不存在"
// @Router /ingredients/{id} [get]
func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrIngredientNotFound.Error())
		return
	}

	item, err := h.catalogService.GetIngredient(id)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, "ok", item)
}

// CreateIngredient 创建食材
// @Summary 创建食材（管理员）
// @Tags 食材
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateIngredientRequest true "食材"
// @Success 201 {object} response.Response{data=dto.IngredientInfo} "创建成功"
// @Failure 400 {object} response.ErrorResponse "校验失败或重复"
// @Router /ingredients [post]
func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	var req dto.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingFailed(c, err)
		return
	}

	item, err := h.catalogService.CreateIngredient(&req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.Created(c, "ingredient created", item)
}

func handleCatalogError(c *gin.Context, err error) {
	if handleValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrTagNotFound), errors.Is(err, service.ErrIngredientNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Catalog operation failed", zap.Error(err))
		response.InternalError(c, "operation failed, please try again later")
	}
}
