// Package state holds the last loaded gallery and theme for the handler layer.
package state

import (
	"context"
	"sync"

	"github.com/artfolio/internal/service"
)

// GallerySource 是 GalleryController 依赖的读写接口
type GallerySource interface {
	Get(ctx context.Context) (service.GallerySettings, error)
	Update(ctx context.Context, settings service.GallerySettings) (service.GallerySettings, error)
	AddCategory(ctx context.Context, category service.Category) (service.GallerySettings, error)
	RemoveCategory(ctx context.Context, id string) (service.GallerySettings, error)
}

// ArtworkLister 列出全部作品
type ArtworkLister interface {
	List(ctx context.Context) ([]service.Artwork, error)
}

// GalleryController 缓存画廊配置与作品列表。
// 写入成功后直接采用调用方提交的值，不等待重新读取；写入失败时内存值保持不变。
type GalleryController struct {
	settingsSource GallerySource
	artworks       ArtworkLister

	mu       sync.RWMutex
	settings service.GallerySettings
	items    []service.Artwork
	loaded   bool
}

// NewGalleryController 构造 GalleryController，调用 Load 前内存值为默认配置与空列表
func NewGalleryController(settings GallerySource, artworks ArtworkLister) *GalleryController {
	return &GalleryController{
		settingsSource: settings,
		artworks:       artworks,
		settings:       service.DefaultGallerySettings(),
	}
}

// Load 读取配置与作品列表
func (c *GalleryController) Load(ctx context.Context) error {
	settings, err := c.settingsSource.Get(ctx)
	if err != nil {
		return err
	}
	items, err := c.artworks.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.settings = settings
	c.items = items
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Reload 重新读取全部数据
func (c *GalleryController) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

// Loaded reports whether Load has succeeded at least once.
func (c *GalleryController) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Settings 返回最近一次加载或写入的配置副本
func (c *GalleryController) Settings() service.GallerySettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := c.settings
	out.Categories = append([]service.Category(nil), c.settings.Categories...)
	return out
}

// Artworks 返回缓存的作品列表副本
func (c *GalleryController) Artworks() []service.Artwork {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]service.Artwork(nil), c.items...)
}

// UpdateSettings 写入配置，成功后以调用方提交的值替换内存值
func (c *GalleryController) UpdateSettings(ctx context.Context, settings service.GallerySettings) error {
	if _, err := c.settingsSource.Update(ctx, settings); err != nil {
		return err
	}
	c.adopt(settings)
	return nil
}

// AddCategory 基于存储中的配置追加分类，成功后采用保存后的配置
func (c *GalleryController) AddCategory(ctx context.Context, category service.Category) error {
	settings, err := c.settingsSource.AddCategory(ctx, category)
	if err != nil {
		return err
	}
	c.adopt(settings)
	return nil
}

// RemoveCategory 基于存储中的配置移除分类，成功后采用保存后的配置
func (c *GalleryController) RemoveCategory(ctx context.Context, id string) error {
	settings, err := c.settingsSource.RemoveCategory(ctx, id)
	if err != nil {
		return err
	}
	c.adopt(settings)
	return nil
}

func (c *GalleryController) adopt(settings service.GallerySettings) {
	settings.Categories = append([]service.Category(nil), settings.Categories...)
	c.mu.Lock()
	c.settings = settings
	c.mu.Unlock()
}

// RefreshArtworks 只重新读取作品列表
func (c *GalleryController) RefreshArtworks(ctx context.Context) error {
	items, err := c.artworks.List(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// Browse 在缓存上筛选分页；未指定每页数量时使用配置中的 itemsPerPage，未指定排序时使用配置中的 sortBy
func (c *GalleryController) Browse(query service.GalleryQuery) service.GalleryPage {
	c.mu.RLock()
	items := c.items
	settings := c.settings
	c.mu.RUnlock()

	if query.PerPage <= 0 {
		query.PerPage = settings.ItemsPerPage
	}
	if query.SortBy == "" {
		query.SortBy = settings.SortBy
	}
	return service.FilterArtworks(items, query)
}
