package auth

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionTokenKey 是 cookie 会话中保存令牌的键
const SessionTokenKey = "token"

// Middleware 从 cookie 会话或 Authorization 头读取令牌，解析主体与角色后写入请求上下文。
// 任何一步失败都按匿名请求处理。
func Middleware(authenticator *Authenticator, resolver RoleResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if raw, ok := sessions.Default(c).Get(SessionTokenKey).(string); ok {
				token = raw
			}
		}

		var principal *Principal
		if token != "" {
			if verified, err := authenticator.Verify(token); err == nil {
				principal = Resolve(c.Request.Context(), resolver, verified, logger)
			}
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// DenyFunc 写出拒绝响应并终止请求，status 为 401 或 403
type DenyFunc func(c *gin.Context, status int)

func defaultDeny(c *gin.Context, status int) {
	message := "authentication required"
	if status == http.StatusForbidden {
		message = "admin role required"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RequireAuth 要求已登录；deny 为 nil 时使用英文 JSON 响应
func RequireAuth(deny DenyFunc) gin.HandlerFunc {
	if deny == nil {
		deny = defaultDeny
	}
	return func(c *gin.Context) {
		if FromContext(c.Request.Context()) == nil {
			deny(c, http.StatusUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin 要求已登录且角色为 admin
func RequireAdmin(deny DenyFunc) gin.HandlerFunc {
	if deny == nil {
		deny = defaultDeny
	}
	return func(c *gin.Context) {
		principal := FromContext(c.Request.Context())
		if principal == nil {
			deny(c, http.StatusUnauthorized)
			c.Abort()
			return
		}
		if !principal.IsAdmin() {
			deny(c, http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	trimmed := strings.TrimSpace(header)
	if len(trimmed) < 7 || !strings.EqualFold(trimmed[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(trimmed[7:])
}
