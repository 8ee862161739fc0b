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

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.UserInfo} "获取成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication credentials were not provided")
		return
	}

	info, err := h.userService.GetUser(userID, userID)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "ok", info)
}

// GetUser 获取用户信息
// @Summary 获取指定用户信息
// @Description is_subscribed 相对当前登录用户，匿名为 false
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.UserInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrUserNotFound.Error())
		return
	}

	info, err := h.userService.GetUser(middleware.ViewerID(c), targetID)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "ok", info)
}

// ListUsers 获取用户列表
// @Summary 获取用户列表
// @Tags 用户
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(6)
// @Success 200 {object} response.Response{data=dto.Page[dto.UserInfo]} "获取成功"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)

	data, err := h.userService.ListUsers(middleware.ViewerID(c), page, limit)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "ok", data)
}

// DeleteUser 删除用户
// @Summary 删除用户（管理员）
// @Description 同时删除其菜谱、收藏、购物车与订阅关系
// @Tags 用户
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 204 "删除成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	targetID, err := parseIDParam(c)
	if err != nil {
		response.NotFound(c, service.ErrUserNotFound.Error())
		return
	}

	if err := h.userService.DeleteUser(targetID); err != nil {
		handleUserError(c, err)
		return
	}

	response.NoContent(c)
}

func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("User operation failed", zap.Error(err))
		response.InternalError(c, "operation failed, please try again later")
	}
}
