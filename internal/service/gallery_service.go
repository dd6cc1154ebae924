package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/store"
)

// ErrCategoryNotFound 在要移除的分类不存在时返回
var ErrCategoryNotFound = errors.New("category not found")

// CategoryAll 是合成分类，表示不过滤
const CategoryAll = "all"

const (
	GalleryLayoutGrid    = "grid"
	GalleryLayoutMasonry = "masonry"
	GalleryLayoutList    = "list"

	SortNewest = "newest"
	SortOldest = "oldest"
	SortName   = "name"

	defaultItemsPerPage = 12
	minItemsPerPage     = 4
	maxItemsPerPage     = 24
)

// Category 是作品分类
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GallerySettings 是 gallery_config/main 单例文档
type GallerySettings struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Categories   []Category `json:"categories"`
	Layout       string     `json:"layout"`
	ItemsPerPage int        `json:"itemsPerPage"`
	ShowFilters  bool       `json:"showFilters"`
	SortBy       string     `json:"sortBy"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// DefaultGallerySettings 返回尚未保存配置时使用的默认值
func DefaultGallerySettings() GallerySettings {
	return GallerySettings{
		Title:       "Art Gallery",
		Description: "Explore my collection of artworks",
		Categories: []Category{
			{ID: CategoryAll, Name: "All"},
			{ID: "digital", Name: "Digital Art"},
			{ID: "traditional", Name: "Traditional Art"},
			{ID: "illustration", Name: "Illustration"},
		},
		Layout:       GalleryLayoutGrid,
		ItemsPerPage: defaultItemsPerPage,
		ShowFilters:  true,
		SortBy:       SortNewest,
	}
}

// WithCategory 返回追加了分类的副本；id 重复时返回 ErrCategoryExists。
func (g GallerySettings) WithCategory(category Category) (GallerySettings, error) {
	category = Category{ID: strings.TrimSpace(category.ID), Name: strings.TrimSpace(category.Name)}
	if category.ID == "" {
		return g, required("category.id")
	}
	if category.Name == "" {
		return g, required("category.name")
	}
	if g.hasCategory(category.ID) {
		return g, ErrCategoryExists
	}
	out := g.clone()
	out.Categories = append(out.Categories, category)
	return out, nil
}

// WithoutCategory 返回移除了分类的副本；all 不可移除，原值保持不变。
func (g GallerySettings) WithoutCategory(id string) (GallerySettings, error) {
	id = strings.TrimSpace(id)
	if id == CategoryAll {
		return g, ErrCategoryProtected
	}
	if !g.hasCategory(id) {
		return g, ErrCategoryNotFound
	}
	out := g.clone()
	out.Categories = out.Categories[:0]
	for _, category := range g.Categories {
		if category.ID != id {
			out.Categories = append(out.Categories, category)
		}
	}
	return out, nil
}

func (g GallerySettings) hasCategory(id string) bool {
	for _, category := range g.Categories {
		if category.ID == id {
			return true
		}
	}
	return false
}

func (g GallerySettings) clone() GallerySettings {
	out := g
	out.Categories = append([]Category(nil), g.Categories...)
	return out
}

// GallerySettingsService 负责画廊配置的读取与保存
type GallerySettingsService struct {
	store store.Store
	clock clock
}

// NewGallerySettingsService 构造 GallerySettingsService
func NewGallerySettingsService(st store.Store) *GallerySettingsService {
	return &GallerySettingsService{store: st}
}

// Get 返回当前配置，尚未保存时返回默认值
func (s *GallerySettingsService) Get(ctx context.Context) (GallerySettings, error) {
	rec, err := s.store.Get(ctx, store.CollectionGalleryConfig, store.SingletonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return DefaultGallerySettings(), nil
		}
		return GallerySettings{}, err
	}
	var settings GallerySettings
	if err := decodeRecord(rec, &settings); err != nil {
		return GallerySettings{}, err
	}
	settings = normalizeGallerySettings(settings)
	if !settings.hasCategory(CategoryAll) {
		settings.Categories = append([]Category{{ID: CategoryAll, Name: "All"}}, settings.Categories...)
	}
	return settings, nil
}

// Update 覆盖保存配置；缺少 all 分类时返回 ErrCategoryProtected 且不写入。
func (s *GallerySettingsService) Update(ctx context.Context, settings GallerySettings) (GallerySettings, error) {
	if auth.FromContext(ctx) == nil {
		return GallerySettings{}, ErrAuthRequired
	}
	settings = normalizeGallerySettings(settings)
	if err := validateGallerySettings(settings); err != nil {
		return GallerySettings{}, err
	}

	now := s.clock.now()
	settings.UpdatedAt = &now
	fields, err := encodeFields(settings, map[string]time.Time{fieldUpdatedAt: now})
	if err != nil {
		return GallerySettings{}, err
	}
	if err := s.store.Set(ctx, store.CollectionGalleryConfig, store.SingletonID, fields); err != nil {
		return GallerySettings{}, err
	}
	return settings, nil
}

// AddCategory 追加一个分类并保存
func (s *GallerySettingsService) AddCategory(ctx context.Context, category Category) (GallerySettings, error) {
	if auth.FromContext(ctx) == nil {
		return GallerySettings{}, ErrAuthRequired
	}
	current, err := s.Get(ctx)
	if err != nil {
		return GallerySettings{}, err
	}
	next, err := current.WithCategory(category)
	if err != nil {
		return GallerySettings{}, err
	}
	return s.Update(ctx, next)
}

// RemoveCategory 移除一个分类并保存；移除 all 时不读不写，直接返回 ErrCategoryProtected。
func (s *GallerySettingsService) RemoveCategory(ctx context.Context, id string) (GallerySettings, error) {
	if auth.FromContext(ctx) == nil {
		return GallerySettings{}, ErrAuthRequired
	}
	if strings.TrimSpace(id) == CategoryAll {
		return GallerySettings{}, ErrCategoryProtected
	}
	current, err := s.Get(ctx)
	if err != nil {
		return GallerySettings{}, err
	}
	next, err := current.WithoutCategory(id)
	if err != nil {
		return GallerySettings{}, err
	}
	return s.Update(ctx, next)
}

func normalizeGallerySettings(settings GallerySettings) GallerySettings {
	out := settings.clone()
	out.Title = strings.TrimSpace(out.Title)
	out.Description = strings.TrimSpace(out.Description)
	for i, category := range out.Categories {
		out.Categories[i] = Category{ID: strings.TrimSpace(category.ID), Name: strings.TrimSpace(category.Name)}
	}

	switch layout := strings.ToLower(strings.TrimSpace(out.Layout)); layout {
	case GalleryLayoutGrid, GalleryLayoutMasonry, GalleryLayoutList:
		out.Layout = layout
	default:
		out.Layout = GalleryLayoutGrid
	}

	switch {
	case out.ItemsPerPage <= 0:
		out.ItemsPerPage = defaultItemsPerPage
	case out.ItemsPerPage < minItemsPerPage:
		out.ItemsPerPage = minItemsPerPage
	case out.ItemsPerPage > maxItemsPerPage:
		out.ItemsPerPage = maxItemsPerPage
	}

	out.SortBy = normalizeSortBy(out.SortBy)
	return out
}

func validateGallerySettings(settings GallerySettings) error {
	seen := make(map[string]struct{}, len(settings.Categories))
	for _, category := range settings.Categories {
		if category.ID == "" {
			return required("categories.id")
		}
		if category.Name == "" {
			return required("categories.name")
		}
		if _, ok := seen[category.ID]; ok {
			return ErrCategoryExists
		}
		seen[category.ID] = struct{}{}
	}
	if _, ok := seen[CategoryAll]; !ok {
		return ErrCategoryProtected
	}
	return nil
}

func normalizeSortBy(sortBy string) string {
	switch value := strings.ToLower(strings.TrimSpace(sortBy)); value {
	case SortOldest, SortName:
		return value
	default:
		return SortNewest
	}
}

// GalleryQuery 描述公开画廊的浏览条件
type GalleryQuery struct {
	Category string
	SortBy   string
	Page     int
	PerPage  int
}

// GalleryPage 是一页筛选后的作品
type GalleryPage struct {
	Items      []Artwork `json:"items"`
	Category   string    `json:"category"`
	Total      int64     `json:"total"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
	PerPage    int       `json:"perPage"`
}

// FilterArtworks 按分类筛选、排序并分页，不修改入参。
func FilterArtworks(items []Artwork, query GalleryQuery) GalleryPage {
	category := strings.TrimSpace(query.Category)
	if category == "" {
		category = CategoryAll
	}

	filtered := make([]Artwork, 0, len(items))
	for _, item := range items {
		if category == CategoryAll || item.Category == category {
			filtered = append(filtered, item)
		}
	}

	switch normalizeSortBy(query.SortBy) {
	case SortOldest:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		})
	case SortName:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Title) < strings.ToLower(filtered[j].Title)
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}

	page := GalleryPage{
		Category: category,
		Total:    int64(len(filtered)),
		Page:     normalizePage(query.Page),
		PerPage:  normalizePerPage(query.PerPage, defaultItemsPerPage),
	}
	if page.PerPage > maxItemsPerPage {
		page.PerPage = maxItemsPerPage
	}
	page.TotalPages = calculateTotalPages(page.Total, page.PerPage)

	// 先比较页码再相乘，避免超大页码溢出
	if page.Page > page.TotalPages {
		page.Items = []Artwork{}
		return page
	}
	start := (page.Page - 1) * page.PerPage
	if start >= len(filtered) {
		page.Items = []Artwork{}
		return page
	}
	end := start + page.PerPage
	if end > len(filtered) {
		end = len(filtered)
	}
	page.Items = filtered[start:end]
	return page
}
