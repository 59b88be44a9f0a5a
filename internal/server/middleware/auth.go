package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopfront/internal/handler"
	"shopfront/internal/model/auth"
	"shopfront/internal/pkg/ctxutil"
	httpx "shopfront/internal/pkg/http"
)

// TokenValidator 校验 Access Token 并还原 Principal
type TokenValidator interface {
	ValidateToken(token string) (*auth.Principal, error)
}

// Auth JWT 认证中间件
// 从 Authorization header 中提取 Bearer token，验证后将 Principal 注入 request context
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从 Header 获取 Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.Abort(c, http.StatusUnauthorized, handler.CodeUnauthorized, "未授权")
			return
		}

		// 提取 Token（Bearer {token}）
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			httpx.Abort(c, http.StatusUnauthorized, handler.CodeUnauthorized, "Invalid authorization header")
			return
		}

		principal, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			handler.AbortWithError(c, err)
			return
		}

		ctx := ctxutil.WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)
		c.Set("user_id", principal.ID)

		c.Next()
	}
}

// RequireRole 角色校验中间件，需放在 Auth 之后；拥有任一角色即可通过
func RequireRole(roles ...auth.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := ctxutil.GetPrincipal(c.Request.Context())
		if !ok {
			httpx.Abort(c, http.StatusUnauthorized, handler.CodeUnauthorized, "未授权")
			return
		}
		if !principal.HasAnyRole(roles...) {
			httpx.Abort(c, http.StatusForbidden, handler.CodeForbidden, "无权访问")
			return
		}
		c.Next()
	}
}
