package handler

import (
	"errors"
	"strconv"

	"foodgram-go/internal/api/response"
	"foodgram-go/internal/config"
	"foodgram-go/internal/service"

	"github.com/gin-gonic/gin"
)

// parseIDParam 从 URL 路径参数中解析 int64 ID
func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parsePagination 读取 page/limit，非法值回落为默认值，limit 不超过配置上限
func parsePagination(c *gin.Context) (int, int) {
	cfg := config.GetPagination()

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	return page, limit
}

// parseRecipesLimit recipes_limit 缺省或非正数表示不限制
func parseRecipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// handleValidationError 若为字段校验错误则写出 400 并返回 true
func handleValidationError(c *gin.Context, err error) bool {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		response.ValidationFailed(c, verr.Fields)
		return true
	}
	return false
}
