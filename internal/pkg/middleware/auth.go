package middleware

import (
	"net/http"
	"strings"

	"socialnet/pkg/response"
	"socialnet/pkg/utils"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	CtxUserID   = "userID"
	CtxUsername = "username"
)

// IdentityResolver 根据 Token 中的用户名解析账号
// 由 user 模块提供实现（查库确认账号存在）
type IdentityResolver interface {
	ResolveUserID(username string) (uint, error)
}

// Identify 认证网关：尝试从 Authorization 头解析身份
// 解析失败（缺头、格式不对、Token 过期、账号不存在）不拒绝请求，
// 而是以匿名身份继续；需要登录的端点由 RequireAuth 单独拦截
func Identify(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		userID, err := resolver.ResolveUserID(claims.Username)
		if err != nil {
			// Token 合法但账号不存在，按匿名处理
			c.Next()
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUsername, claims.Username)
		c.Next()
	}
}

// RequireAuth 拦截未认证请求，必须在 Identify 之后挂载
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CtxUserID); !exists {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID 获取当前登录用户ID，0 表示匿名
func CurrentUserID(c *gin.Context) uint {
	val, ok := c.Get(CtxUserID)
	if !ok {
		return 0
	}
	if id, ok := val.(uint); ok {
		return id
	}
	return 0
}

// CurrentUsername 获取当前登录用户名，空串表示匿名
func CurrentUsername(c *gin.Context) string {
	val, ok := c.Get(CtxUsername)
	if !ok {
		return ""
	}
	if name, ok := val.(string); ok {
		return name
	}
	return ""
}
