package handler

import (
	"errors"
	"net/http"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/locale"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 校验邮箱密码，解析角色后把令牌写入 cookie 会话。
// 角色无法解析时按未登录处理。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !a.bindJSON(c, &req) {
		return
	}

	client := auth.NewSession(a.authenticator, a.users, a.logger)
	unsubscribe := client.Subscribe(a.logSignIn)
	defer unsubscribe()

	resolved, err := client.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, a.message(c, locale.MsgInvalidCredentials))
			return
		}
		a.respondServiceError(c, err)
		return
	}

	token := client.Token()
	session := sessions.Default(c)
	session.Set(auth.SessionTokenKey, token)
	if err := session.Save(); err != nil {
		a.logger.Error("save session failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, a.message(c, locale.MsgSessionSaveFailed))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": resolved, "token": token})
}

// logSignIn 记录登录成功；订阅时的首次回调为未登录，忽略
func (a *API) logSignIn(p *auth.Principal) {
	if p == nil {
		return
	}
	a.logger.Info("user signed in", zap.String("uid", p.ID), zap.String("role", p.Role))
}

// Logout 清除 cookie 会话
func (a *API) Logout(c *gin.Context) {
	if p := auth.FromContext(c.Request.Context()); p != nil {
		a.logger.Info("user signed out", zap.String("uid", p.ID))
	}
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		a.logger.Warn("clear session failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgLoggedOut)})
}

// CurrentUser 返回当前请求的主体，需配合 auth.RequireAuth 使用
func (a *API) CurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": auth.FromContext(c.Request.Context())})
}

// Deny 以本地化提示拒绝请求，供 auth.RequireAuth / auth.RequireAdmin 使用
func (a *API) Deny(c *gin.Context, status int) {
	key := locale.MsgAuthRequired
	if status == http.StatusForbidden {
		key = locale.MsgForbidden
	}
	c.AbortWithStatusJSON(status, gin.H{"error": a.message(c, key)})
}
