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

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册新用户账号
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "注册信息"
// @Success 201 {object} response.Response{data=dto.RegisteredUser} "注册成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /users [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingFailed(c, err)
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.Created(c, "user registered", user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 邮箱 + 密码换取令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} response.Response{data=dto.TokenData} "登录成功"
// @Failure 400 {object} response.ErrorResponse "邮箱或密码错误"
// @Router /auth/token/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingFailed(c, err)
		return
	}

	tokenData, err := h.authService.Login(&req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, "logged in", tokenData)
}

// Logout 注销当前令牌
// @Summary 用户登出
// @Description 注销当前令牌直至其过期
// @Tags 认证
// @Security BearerAuth
// @Success 204 "登出成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /auth/token/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Unauthorized(c, "authentication credentials were not provided")
		return
	}

	if err := h.authService.Logout(claims); err != nil {
		handleAuthError(c, err)
		return
	}

	response.NoContent(c)
}

// SetPassword 修改密码
// @Summary 修改密码
// @Description 提供当前密码后设置新密码
// @Tags 用户
// @Accept json
// @Security BearerAuth
// @Param request body dto.SetPasswordRequest true "密码"
// @Success 204 "修改成功"
// @Failure 400 {object} response.ErrorResponse "当前密码错误"
// @Router /users/set_password [post]
func (h *AuthHandler) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingFailed(c, err)
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	if err := h.authService.SetPassword(userID, &req); err != nil {
		handleAuthError(c, err)
		return
	}

	response.NoContent(c)
}

func handleAuthError(c *gin.Context, err error) {
	if handleValidationError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrInvalidCredential):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Auth operation failed", zap.Error(err))
		response.InternalError(c, "operation failed, please try again later")
	}
}
