package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/handler"
	"github.com/artfolio/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const sessionName = "artfolio_session"

// Options 是路由层的配置
type Options struct {
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
	// UploadDir 非空时以 UploadURLPath 提供本地上传目录
	UploadDir      string
	UploadURLPath  string
	AllowedOrigins []string
	// ArtworkWritesRequireAuth 为 false 时作品写接口不经过管理员校验
	ArtworkWritesRequireAuth bool
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, authenticator *auth.Authenticator, resolver auth.RoleResolver, logger *zap.Logger, opts Options) *gin.Engine {
	logger = logging.OrNop(logger)

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger())

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
			ExposeHeaders:    []string{"Content-Language"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(api.LocaleMiddleware())
	r.Use(auth.Middleware(authenticator, resolver, logger))

	if dir := strings.TrimSpace(opts.UploadDir); dir != "" {
		r.Static(uploadPath(opts.UploadURLPath), dir)
	}

	r.GET("/ping", api.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/favicon.ico", api.Favicon)
	r.GET("/theme.css", api.ThemeStylesheet)

	public := r.Group("/api")
	{
		public.POST("/auth/login", api.Login)
		public.POST("/auth/logout", api.Logout)
		public.GET("/auth/me", auth.RequireAuth(api.Deny), api.CurrentUser)

		public.GET("/profile", api.GetProfile)
		public.GET("/gallery", api.GetGallery)
		public.GET("/artworks", api.ListArtworks)
		public.GET("/artworks/:id", api.GetArtwork)
		public.GET("/projects", api.ListProjects)
		public.GET("/projects/:id", api.GetProject)
		public.GET("/theme", api.GetTheme)
	}

	artworks := r.Group("/api/admin/artworks")
	if opts.ArtworkWritesRequireAuth {
		artworks.Use(auth.RequireAdmin(api.Deny))
	}
	{
		artworks.POST("", api.CreateArtwork)
		artworks.PUT("/:id", api.UpdateArtwork)
		artworks.DELETE("/:id", api.DeleteArtwork)
	}

	// 需要管理员角色的后台接口
	admin := r.Group("/api/admin")
	admin.Use(auth.RequireAdmin(api.Deny))
	{
		admin.POST("/projects", api.CreateProject)
		admin.PUT("/projects/:id", api.UpdateProject)
		admin.DELETE("/projects/:id", api.DeleteProject)

		admin.PUT("/profile", api.UpdateProfile)

		admin.GET("/gallery", api.GetGallerySettings)
		admin.PUT("/gallery", api.UpdateGallerySettings)
		admin.POST("/gallery/categories", api.AddGalleryCategory)
		admin.DELETE("/gallery/categories/:id", api.RemoveGalleryCategory)

		admin.PUT("/theme", api.UpdateTheme)
		admin.POST("/theme/reset", api.ResetTheme)

		admin.PUT("/users/:id/role", api.SetUserRole)

		admin.POST("/upload/image", api.UploadImage)
	}

	return r
}

func uploadPath(urlPath string) string {
	trimmed := strings.Trim(strings.TrimSpace(urlPath), "/")
	if trimmed == "" {
		return "/static/uploads"
	}
	return "/" + trimmed
}
