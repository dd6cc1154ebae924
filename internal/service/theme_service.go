package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/store"
)

// Theme 是站点配色，驱动前端 CSS 变量
type Theme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Header     string `json:"header"`
}

// DefaultTheme 返回默认配色
func DefaultTheme() Theme {
	return Theme{
		Primary:    "#9333EA",
		Secondary:  "#4F46E5",
		Accent:     "#EC4899",
		Background: "#F9FAFB",
		Text:       "#111827",
		Header:     "#FFFFFF",
	}
}

// ThemeService 维护 theme/main 单例文档
type ThemeService struct {
	store store.Store
	clock clock
}

// NewThemeService 构造 ThemeService
func NewThemeService(st store.Store) *ThemeService {
	return &ThemeService{store: st}
}

// Get 返回当前配色，尚未保存时返回默认值
func (s *ThemeService) Get(ctx context.Context) (Theme, error) {
	rec, err := s.store.Get(ctx, store.CollectionTheme, store.SingletonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return DefaultTheme(), nil
		}
		return Theme{}, err
	}
	var theme Theme
	if err := decodeRecord(rec, &theme); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

// Update 覆盖保存配色，六个颜色均需提供
func (s *ThemeService) Update(ctx context.Context, theme Theme) (Theme, error) {
	if auth.FromContext(ctx) == nil {
		return Theme{}, ErrAuthRequired
	}
	theme = Theme{
		Primary:    strings.TrimSpace(theme.Primary),
		Secondary:  strings.TrimSpace(theme.Secondary),
		Accent:     strings.TrimSpace(theme.Accent),
		Background: strings.TrimSpace(theme.Background),
		Text:       strings.TrimSpace(theme.Text),
		Header:     strings.TrimSpace(theme.Header),
	}
	switch {
	case theme.Primary == "":
		return Theme{}, required("primary")
	case theme.Secondary == "":
		return Theme{}, required("secondary")
	case theme.Accent == "":
		return Theme{}, required("accent")
	case theme.Background == "":
		return Theme{}, required("background")
	case theme.Text == "":
		return Theme{}, required("text")
	case theme.Header == "":
		return Theme{}, required("header")
	}

	fields, err := encodeFields(theme, map[string]time.Time{fieldUpdatedAt: s.clock.now()})
	if err != nil {
		return Theme{}, err
	}
	if err := s.store.Set(ctx, store.CollectionTheme, store.SingletonID, fields); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

// Reset 将配色恢复为默认值并保存
func (s *ThemeService) Reset(ctx context.Context) (Theme, error) {
	return s.Update(ctx, DefaultTheme())
}
