package handler

import (
	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/logging"
	"github.com/artfolio/internal/service"
	"github.com/artfolio/internal/state"
	"github.com/artfolio/internal/upload"
	"go.uber.org/zap"
)

// Dependencies 汇总 HTTP 层需要的服务与控制器。
type Dependencies struct {
	Artworks      *service.ArtworkService
	Projects      *service.ProjectService
	Profiles      *service.ProfileService
	Users         *service.UserService
	Gallery       *state.GalleryController
	Theme         *state.ThemeController
	Authenticator *auth.Authenticator
	Uploader      upload.Uploader
	Logger        *zap.Logger
	// SecureCookies 为 true 时语言 cookie 只通过 HTTPS 发送
	SecureCookies bool
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	artworks      *service.ArtworkService
	projects      *service.ProjectService
	profiles      *service.ProfileService
	users         *service.UserService
	gallery       *state.GalleryController
	theme         *state.ThemeController
	authenticator *auth.Authenticator
	uploader      upload.Uploader
	logger        *zap.Logger
	secureCookies bool
}

// NewAPI constructs a handler set with shared services.
func NewAPI(deps Dependencies) *API {
	return &API{
		artworks:      deps.Artworks,
		projects:      deps.Projects,
		profiles:      deps.Profiles,
		users:         deps.Users,
		gallery:       deps.Gallery,
		theme:         deps.Theme,
		authenticator: deps.Authenticator,
		uploader:      deps.Uploader,
		logger:        logging.OrNop(deps.Logger).Named("http"),
		secureCookies: deps.SecureCookies,
	}
}
