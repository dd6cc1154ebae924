package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/artfolio/internal/locale"
	"github.com/gin-gonic/gin"
)

const (
	languageContextKey = "artfolio.language"
	languageCookieName = "af_lang"
	languageCookieTTL  = 365 * 24 * time.Hour
)

// LocaleMiddleware 解析请求语言并写入上下文，?lang 覆盖时记入 cookie
func (a *API) LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		language, persist := a.resolveLanguage(c)
		if persist {
			a.persistLanguage(c, language)
		}
		c.Set(languageContextKey, language)
		c.Header("Content-Language", locale.ContentLanguage(language))
		c.Writer.Header().Add("Vary", "Accept-Language")
		c.Next()
	}
}

// language 返回当前请求的语言；未经过 LocaleMiddleware 时现场解析
func (a *API) language(c *gin.Context) string {
	if cached, ok := c.Get(languageContextKey); ok {
		if language, ok := cached.(string); ok {
			return language
		}
	}
	language, _ := a.resolveLanguage(c)
	return language
}

// resolveLanguage 依次取 ?lang、cookie、Accept-Language，都没有时为中文。
// 第二个返回值表示是否需要写 cookie。
func (a *API) resolveLanguage(c *gin.Context) (string, bool) {
	if override := locale.NormalizeLanguage(c.Query("lang")); override != "" {
		return override, true
	}
	if value, err := c.Cookie(languageCookieName); err == nil {
		if cookie := locale.NormalizeLanguage(value); cookie != "" {
			return cookie, false
		}
	}
	if fromHeader := locale.LanguageFromAcceptLanguage(c.GetHeader("Accept-Language")); fromHeader != "" {
		return fromHeader, false
	}
	return locale.LanguageChinese, false
}

func (a *API) persistLanguage(c *gin.Context, language string) {
	secure := a.secureCookies || c.Request.TLS != nil ||
		strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     languageCookieName,
		Value:    language,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   int(languageCookieTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
