package state

import (
	"context"
	"sync"

	"github.com/artfolio/internal/service"
)

// ThemeSource 是 ThemeController 依赖的读写接口
type ThemeSource interface {
	Get(ctx context.Context) (service.Theme, error)
	Update(ctx context.Context, theme service.Theme) (service.Theme, error)
	Reset(ctx context.Context) (service.Theme, error)
}

// ThemeController 缓存站点配色
type ThemeController struct {
	source ThemeSource

	mu    sync.RWMutex
	theme service.Theme
}

// NewThemeController 构造 ThemeController，初始为默认配色
func NewThemeController(source ThemeSource) *ThemeController {
	return &ThemeController{source: source, theme: service.DefaultTheme()}
}

// Load 读取当前配色
func (c *ThemeController) Load(ctx context.Context) error {
	theme, err := c.source.Get(ctx)
	if err != nil {
		return err
	}
	c.set(theme)
	return nil
}

// Reload 重新读取配色
func (c *ThemeController) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

// Theme 返回内存中的配色
func (c *ThemeController) Theme() service.Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.theme
}

// Update 写入配色，成功后以调用方提交的值替换内存值
func (c *ThemeController) Update(ctx context.Context, theme service.Theme) error {
	if _, err := c.source.Update(ctx, theme); err != nil {
		return err
	}
	c.set(theme)
	return nil
}

// Reset 恢复默认配色
func (c *ThemeController) Reset(ctx context.Context) error {
	theme, err := c.source.Reset(ctx)
	if err != nil {
		return err
	}
	c.set(theme)
	return nil
}

func (c *ThemeController) set(theme service.Theme) {
	c.mu.Lock()
	c.theme = theme
	c.mu.Unlock()
}
