package handler

import (
	"errors"
	"net/http"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	infraES "foodgram-go/internal/infra/elasticsearch"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchRecipes 搜索菜谱
// @Summary 搜索菜谱
// @Description 按名称、描述和食材全文搜索，索引不可用时按名称模糊匹配
// @Tags 搜索
// @Produce json
// @Param q query string false "搜索关键词"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(6)
// @Success 200 {object} response.Response{data=dto.Page[dto.RecipeInfo]} "搜索成功"
// @Router /recipes/search [get]
func (h *SearchHandler) SearchRecipes(c *gin.Context) {
	var req dto.SearchRecipeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindingFailed(c, err)
		return
	}
	page, limit := parsePagination(c)

	data, err := h.searchService.SearchRecipes(middleware.ViewerID(c), req.Q, page, limit)
	if err != nil {
		logger.Error("Search recipes failed", zap.Error(err))
		response.InternalError(c, "search failed")
		return
	}

	response.OK(c, "ok", data)
}

// SyncIndex 全量重建搜索索引
// @Summary 重建搜索索引（管理员）
// @Tags 搜索
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.SyncResult} "同步完成"
// @Failure 503 {object} response.ErrorResponse "搜索服务不可用"
// @Router /recipes/search/sync [post]
func (h *SearchHandler) SyncIndex(c *gin.Context) {
	result, err := h.searchService.SyncAll()
	if err != nil {
		if errors.Is(err, infraES.ErrNotInitialized) {
			response.Fail(c, http.StatusServiceUnavailable, "ServiceUnavailable", "search index is not available")
			return
		}
		logger.Error("Sync recipe index failed", zap.Error(err))
		response.InternalError(c, "sync failed")
		return
	}

	response.OK(c, "index rebuilt", result)
}
