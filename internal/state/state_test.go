package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/artfolio/internal/service"
	"github.com/google/go-cmp/cmp"
)

type fakeGallerySource struct {
	stored    service.GallerySettings
	updateErr error
	updates   int
}

func (f *fakeGallerySource) Get(context.Context) (service.GallerySettings, error) {
	return f.stored, nil
}

func (f *fakeGallerySource) Update(_ context.Context, settings service.GallerySettings) (service.GallerySettings, error) {
	f.updates++
	if f.updateErr != nil {
		return service.GallerySettings{}, f.updateErr
	}
	// 存储端的规范化结果与调用方提交的值不同
	persisted := settings
	persisted.Title = "normalized"
	f.stored = persisted
	return persisted, nil
}

func (f *fakeGallerySource) AddCategory(ctx context.Context, category service.Category) (service.GallerySettings, error) {
	next, err := f.stored.WithCategory(category)
	if err != nil {
		return service.GallerySettings{}, err
	}
	return f.Update(ctx, next)
}

func (f *fakeGallerySource) RemoveCategory(ctx context.Context, id string) (service.GallerySettings, error) {
	next, err := f.stored.WithoutCategory(id)
	if err != nil {
		return service.GallerySettings{}, err
	}
	return f.Update(ctx, next)
}

type fakeArtworks struct {
	items []service.Artwork
	calls int
}

func (f *fakeArtworks) List(context.Context) ([]service.Artwork, error) {
	f.calls++
	return append([]service.Artwork(nil), f.items...), nil
}

func TestGalleryControllerLoadAndBrowse(t *testing.T) {
	settings := service.DefaultGallerySettings()
	settings.ItemsPerPage = 1
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	artworks := &fakeArtworks{items: []service.Artwork{
		{ID: "a", Category: "digital", CreatedAt: base},
		{ID: "b", Category: "digital", CreatedAt: base.Add(time.Hour)},
		{ID: "c", Category: "traditional", CreatedAt: base.Add(2 * time.Hour)},
	}}
	ctrl := NewGalleryController(&fakeGallerySource{stored: settings}, artworks)

	if ctrl.Loaded() {
		t.Fatal("expected controller not to be loaded yet")
	}
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ctrl.Artworks()) != 3 {
		t.Fatalf("expected 3 artworks, got %d", len(ctrl.Artworks()))
	}

	page := ctrl.Browse(service.GalleryQuery{Category: "digital"})
	if page.PerPage != 1 || page.TotalPages != 2 || len(page.Items) != 1 || page.Items[0].ID != "b" {
		t.Fatalf("unexpected page %#v", page)
	}

	artworks.items = append(artworks.items, service.Artwork{ID: "d", Category: "digital", CreatedAt: base.Add(3 * time.Hour)})
	if err := ctrl.RefreshArtworks(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(ctrl.Artworks()) != 4 {
		t.Fatalf("expected refreshed list, got %d", len(ctrl.Artworks()))
	}
}

func TestGalleryControllerKeepsCallerValueAfterWrite(t *testing.T) {
	source := &fakeGallerySource{stored: service.DefaultGallerySettings()}
	ctrl := NewGalleryController(source, &fakeArtworks{})
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	next := service.DefaultGallerySettings()
	next.Title = "My Gallery"
	if err := ctrl.UpdateSettings(context.Background(), next); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := ctrl.Settings().Title; got != "My Gallery" {
		t.Fatalf("expected caller value in memory, got %q", got)
	}

	if err := ctrl.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := ctrl.Settings().Title; got != "normalized" {
		t.Fatalf("expected persisted value after reload, got %q", got)
	}
}

func TestGalleryControllerFailedWriteLeavesMemory(t *testing.T) {
	source := &fakeGallerySource{stored: service.DefaultGallerySettings(), updateErr: errors.New("denied")}
	ctrl := NewGalleryController(source, &fakeArtworks{})
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := ctrl.Settings()

	next := service.DefaultGallerySettings()
	next.Title = "never saved"
	if err := ctrl.UpdateSettings(context.Background(), next); err == nil {
		t.Fatal("expected update error")
	}
	if diff := cmp.Diff(before, ctrl.Settings()); diff != "" {
		t.Fatalf("settings changed after failed write (-want +got):\n%s", diff)
	}
}

func TestGalleryControllerCategoryEditsStartFromStoredSettings(t *testing.T) {
	source := &fakeGallerySource{stored: service.DefaultGallerySettings()}
	ctrl := NewGalleryController(source, &fakeArtworks{})
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	// 另一个实例在加载之后修改了存储
	changed := service.DefaultGallerySettings()
	changed.Description = "edited elsewhere"
	source.stored = changed

	if err := ctrl.AddCategory(context.Background(), service.Category{ID: "ink", Name: "Ink"}); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if source.stored.Description != "edited elsewhere" {
		t.Fatalf("expected stored edit to survive, got %q", source.stored.Description)
	}
	got := ctrl.Settings()
	if got.Description != "edited elsewhere" || got.Title != "normalized" {
		t.Fatalf("expected controller to adopt the saved settings, got %#v", got)
	}
	if got.Categories[len(got.Categories)-1].ID != "ink" {
		t.Fatalf("expected new category, got %#v", got.Categories)
	}

	if err := ctrl.RemoveCategory(context.Background(), "ink"); err != nil {
		t.Fatalf("remove category: %v", err)
	}
	for _, category := range ctrl.Settings().Categories {
		if category.ID == "ink" {
			t.Fatal("expected category to be removed")
		}
	}

	updates := source.updates
	if err := ctrl.RemoveCategory(context.Background(), service.CategoryAll); !errors.Is(err, service.ErrCategoryProtected) {
		t.Fatalf("expected ErrCategoryProtected, got %v", err)
	}
	if source.updates != updates {
		t.Fatal("expected no write for protected category")
	}
}

func TestGalleryControllerSettingsAreCopies(t *testing.T) {
	ctrl := NewGalleryController(&fakeGallerySource{stored: service.DefaultGallerySettings()}, &fakeArtworks{})
	settings := ctrl.Settings()
	settings.Categories[0].Name = "mutated"
	if ctrl.Settings().Categories[0].Name == "mutated" {
		t.Fatal("expected Settings to return a copy")
	}
}

type fakeThemeSource struct {
	stored    service.Theme
	updateErr error
}

func (f *fakeThemeSource) Get(context.Context) (service.Theme, error) {
	return f.stored, nil
}

func (f *fakeThemeSource) Update(_ context.Context, theme service.Theme) (service.Theme, error) {
	if f.updateErr != nil {
		return service.Theme{}, f.updateErr
	}
	f.stored = theme
	return theme, nil
}

func (f *fakeThemeSource) Reset(ctx context.Context) (service.Theme, error) {
	return f.Update(ctx, service.DefaultTheme())
}

func TestThemeController(t *testing.T) {
	custom := service.DefaultTheme()
	custom.Primary = "#123456"
	source := &fakeThemeSource{stored: custom}
	ctrl := NewThemeController(source)

	if ctrl.Theme() != service.DefaultTheme() {
		t.Fatal("expected default theme before load")
	}
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if ctrl.Theme().Primary != "#123456" {
		t.Fatalf("expected loaded theme, got %#v", ctrl.Theme())
	}

	next := custom
	next.Accent = "#ABCDEF"
	if err := ctrl.Update(context.Background(), next); err != nil {
		t.Fatalf("update: %v", err)
	}
	if ctrl.Theme() != next {
		t.Fatalf("expected updated theme, got %#v", ctrl.Theme())
	}

	source.updateErr = errors.New("denied")
	if err := ctrl.Update(context.Background(), service.Theme{Primary: "#000"}); err == nil {
		t.Fatal("expected update error")
	}
	if ctrl.Theme() != next {
		t.Fatal("expected theme to stay unchanged after failed write")
	}

	source.updateErr = nil
	if err := ctrl.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ctrl.Theme() != service.DefaultTheme() {
		t.Fatalf("expected default theme after reset, got %#v", ctrl.Theme())
	}
}
