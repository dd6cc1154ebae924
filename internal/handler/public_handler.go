package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/artfolio/internal/service"
	"github.com/artfolio/internal/store"
	"github.com/artfolio/internal/view"
	"github.com/gin-gonic/gin"
)

// Ping 健康检查
func (a *API) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// GetProfile 返回作者资料及社交链接
func (a *API) GetProfile(c *gin.Context) {
	profile, err := a.profiles.Get(c.Request.Context())
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"social":  view.SocialLinks(*profile),
	})
}

// GetGallery 返回画廊配置和一页作品，支持 category/sort/page/perPage 参数
func (a *API) GetGallery(c *gin.Context) {
	query := service.GalleryQuery{
		Category: strings.TrimSpace(c.Query("category")),
		SortBy:   strings.TrimSpace(c.Query("sort")),
		Page:     parsePositiveInt(c.Query("page"), 1),
		PerPage:  parsePositiveInt(c.Query("perPage"), 0),
	}
	c.JSON(http.StatusOK, gin.H{
		"settings": a.gallery.Settings(),
		"page":     a.gallery.Browse(query),
	})
}

// ListArtworks 返回全部作品（最新在前），可按 category 过滤
func (a *API) ListArtworks(c *gin.Context) {
	items := a.gallery.Artworks()
	category := strings.TrimSpace(c.Query("category"))
	if category != "" && category != service.CategoryAll {
		filtered := items[:0]
		for _, item := range items {
			if item.Category == category {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetArtwork 返回单件作品
func (a *API) GetArtwork(c *gin.Context) {
	artwork, err := a.artworks.Get(c.Request.Context(), idParam(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": artwork})
}

// ListProjects 返回全部项目，最新在前
func (a *API) ListProjects(c *gin.Context) {
	items, err := a.projects.List(c.Request.Context())
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetProject 返回项目详情，正文已渲染为 HTML 并附带排版样式
func (a *API) GetProject(c *gin.Context) {
	project, err := a.projects.Get(c.Request.Context(), idParam(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	projectView, err := view.BuildProjectView(*project)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": projectView})
}

// GetTheme 返回当前配色及对应的 CSS 变量
func (a *API) GetTheme(c *gin.Context) {
	theme := a.theme.Theme()
	c.JSON(http.StatusOK, gin.H{
		"theme":     theme,
		"variables": view.ThemeVariables(theme),
	})
}

// ThemeStylesheet 以样式表形式输出当前配色
func (a *API) ThemeStylesheet(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(view.ThemeCSS(a.theme.Theme())))
}

// Favicon 重定向到作者头像
func (a *API) Favicon(c *gin.Context) {
	profile, err := a.profiles.Get(c.Request.Context())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.respondServiceError(c, err)
			return
		}
		c.Status(http.StatusNotFound)
		return
	}
	if strings.TrimSpace(profile.PhotoURL) == "" {
		c.Status(http.StatusNotFound)
		return
	}
	c.Redirect(http.StatusFound, profile.PhotoURL)
}
