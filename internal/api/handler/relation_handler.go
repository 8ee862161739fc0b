package handler

import (
	"errors"

	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RelationHandler struct {
	relationService *service.RelationService
}

func NewRelationHandler(relationService *service.RelationService) *RelationHandler {
	return &RelationHandler{relationService: relationService}
}

// Subscribe 订阅作者
// @Summary 订阅作者
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param id path int true "作者ID"
// @Param recipes_limit query int false "预览菜谱数量"
// @Success 201 {object} response.Response{data=dto.SubscriptionInfo} "订阅成功"
// @Failure 400 {object} response.ErrorResponse "不能订阅自己或已订阅"
// @Failure 404 {object} response.ErrorResponse "作者不存在"
// @Router /users/{id}/subscribe [post]
func (h *RelationHandler) Subscribe(c *gin.Context) {
	authorID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrUserNotFound.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	info, err := h.relationService.Subscribe(userID, authorID, parseRecipesLimit(c))
	if err != nil {
		handleRelationError(c, err)
		return
	}

	response.Created(c, "subscribed", info)
}

// Unsubscribe 取消订阅
// @Summary 取消订阅
// @Tags 订阅
// @Security BearerAuth
// @Param id path int true "作者ID"
// @Success 204 "取消成功"
// @Failure 404 {object} response.ErrorResponse "作者不存在或未订阅"
// @Router /users/{id}/subscribe [delete]
func (h *RelationHandler) Unsubscribe(c *gin.Context) {
	authorID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrUserNotFound.Error())
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	if err := h.relationService.Unsubscribe(userID, authorID); err != nil {
		handleRelationError(c, err)
		return
	}

	response.NoContent(c)
}

// Subscriptions 我的订阅
// @Summary 我的订阅列表
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(6)
// @Param recipes_limit query int false "每位作者的预览菜谱数量"
// @Success 200 {object} response.Response{data=dto.Page[dto.SubscriptionInfo]} "获取成功"
// @Router /users/subscriptions [get]
func (h *RelationHandler) Subscriptions(c *gin.Context) {
	page, limit := parsePagination(c)
	userID, _ := middleware.GetCurrentUserID(c)

	data, err := h.relationService.Subscriptions(userID, page, limit, parseRecipesLimit(c))
	if err != nil {
		handleRelationError(c, err)
		return
	}

	response.OK(c, "ok", data)
}

func handleRelationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCannotFollowSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrAlreadySubscribed):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotSubscribed):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Relation operation failed", zap.Error(err))
		response.InternalError(c, "operation failed, please try again later")
	}
}
