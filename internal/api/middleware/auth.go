package middleware

import (
	"strings"

	"foodgram-go/internal/api/response"
	"foodgram-go/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID = "currentUserID"
	ContextKeyClaims = "currentClaims"
)

// TokenChecker 检查令牌是否已注销
type TokenChecker interface {
	CheckToken(claims *utils.Claims) error
}

// AuthRequired JWT 认证中间件，要求请求必须携带有效 Token
func AuthRequired(checker TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "authentication credentials were not provided")
			c.Abort()
			return
		}
		if !authenticate(c, checker, token) {
			return
		}
		c.Next()
	}
}

// AuthOptional 有 Token 时解析身份，无 Token 时以匿名身份继续；Token 无效仍返回 401
func AuthOptional(checker TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" && !authenticate(c, checker, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, checker TokenChecker, token string) bool {
	claims, err := utils.ParseToken(token)
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		c.Abort()
		return false
	}
	if checker != nil {
		if err := checker.CheckToken(claims); err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return false
		}
	}

	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyClaims, claims)
	return true
}

// GetCurrentUserID 从 Gin Context 中获取当前登录用户 ID
func GetCurrentUserID(c *gin.Context) (int64, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := val.(int64)
	return userID, ok
}

// ViewerID 当前用户 ID，匿名为 0
func ViewerID(c *gin.Context) int64 {
	id, _ := GetCurrentUserID(c)
	return id
}

// GetClaims 当前请求的令牌 Claims
func GetClaims(c *gin.Context) (*utils.Claims, bool) {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*utils.Claims)
	return claims, ok
}

// AdminChecker 查询用户是否管理员
type AdminChecker func(userID int64) (bool, error)

// AdminRequired 管理员权限中间件（必须在 AuthRequired 之后使用）
func AdminRequired(isAdmin AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			response.Unauthorized(c, "authentication credentials were not provided")
			c.Abort()
			return
		}

		admin, err := isAdmin(userID)
		if err != nil {
			response.Unauthorized(c, "user not found")
			c.Abort()
			return
		}
		if !admin {
			response.Forbidden(c, "you do not have permission to perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractToken 从 Authorization 头中提取 Bearer Token，也接受 "Token xxx"
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "bearer") && !strings.EqualFold(parts[0], "token") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
