package service

import (
	"context"
	"strings"
	"time"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/logging"
	"github.com/artfolio/internal/store"
	"github.com/artfolio/internal/upload"
	"go.uber.org/zap"
)

// Artwork 是画廊中的一件作品
type Artwork struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"imageUrl"`
	PublicID    string     `json:"publicId,omitempty"`
	Width       int        `json:"width,omitempty"`
	Height      int        `json:"height,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ArtworkInput 表示创建或更新作品时可设置的字段
type ArtworkInput struct {
	Title       string
	Description string
	Category    string
}

// ArtworkService 负责作品的增删改查，图片先上传再写记录。
type ArtworkService struct {
	store       store.Store
	uploader    upload.Uploader
	requireAuth bool
	logger      *zap.Logger
	clock       clock
}

// NewArtworkService 构造 ArtworkService。requireAuth 为 false 时允许匿名写入。
func NewArtworkService(st store.Store, uploader upload.Uploader, requireAuth bool, logger *zap.Logger) *ArtworkService {
	return &ArtworkService{
		store:       st,
		uploader:    uploader,
		requireAuth: requireAuth,
		logger:      logging.OrNop(logger).Named("artwork"),
	}
}

// RequiresAuth reports whether writes need a signed-in principal.
func (s *ArtworkService) RequiresAuth() bool {
	return s.requireAuth
}

// List returns every artwork, newest first.
func (s *ArtworkService) List(ctx context.Context) ([]Artwork, error) {
	records, err := s.store.List(ctx, store.CollectionArtworks, newestFirst())
	if err != nil {
		return nil, err
	}
	items := make([]Artwork, 0, len(records))
	for _, rec := range records {
		item, err := artworkFromRecord(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Get fetches one artwork; a missing id yields store.ErrNotFound.
func (s *ArtworkService) Get(ctx context.Context, id string) (*Artwork, error) {
	rec, err := s.store.Get(ctx, store.CollectionArtworks, id)
	if err != nil {
		return nil, err
	}
	item, err := artworkFromRecord(rec)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create uploads the image and then writes the artwork record.
func (s *ArtworkService) Create(ctx context.Context, input ArtworkInput, file *upload.File) (*Artwork, error) {
	if err := s.checkAuth(ctx); err != nil {
		return nil, err
	}
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, required("image")
	}

	asset, err := s.uploader.Upload(ctx, *file)
	if err != nil {
		return nil, err
	}

	item := Artwork{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		ImageURL:    asset.URL,
		PublicID:    asset.AssetID,
		Width:       asset.Width,
		Height:      asset.Height,
		CreatedAt:   s.clock.now(),
	}
	fields, err := encodeFields(item, map[string]time.Time{fieldCreatedAt: item.CreatedAt})
	if err != nil {
		return nil, err
	}
	id, err := s.store.Create(ctx, store.CollectionArtworks, fields)
	if err != nil {
		return nil, err
	}
	item.ID = id
	return &item, nil
}

// Update 更新作品字段；file 非空时先上传新图，写入成功后尽力删除旧图。
func (s *ArtworkService) Update(ctx context.Context, id string, input ArtworkInput, file *upload.File) (*Artwork, error) {
	if err := s.checkAuth(ctx); err != nil {
		return nil, err
	}
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.Get(ctx, store.CollectionArtworks, id)
	if err != nil {
		return nil, err
	}
	previous, err := artworkFromRecord(existing)
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	partial := store.Fields{
		"title":         input.Title,
		"description":   input.Description,
		"category":      input.Category,
		fieldUpdatedAt: now,
	}

	replaced := false
	if file != nil {
		asset, err := s.uploader.Upload(ctx, *file)
		if err != nil {
			return nil, err
		}
		partial["imageUrl"] = asset.URL
		partial["publicId"] = asset.AssetID
		partial["width"] = asset.Width
		partial["height"] = asset.Height
		replaced = true
	}

	if err := s.store.Update(ctx, store.CollectionArtworks, id, partial); err != nil {
		return nil, err
	}

	merged := existing.Fields.Clone()
	for key, value := range partial {
		merged[key] = value
	}
	item, err := artworkFromRecord(store.Record{ID: id, Fields: merged})
	if err != nil {
		return nil, err
	}

	if replaced && previous.PublicID != item.PublicID {
		removeAsset(ctx, s.uploader, previous.PublicID, s.logger)
	}
	return &item, nil
}

// Delete 删除作品记录，随后尽力删除其图片。
func (s *ArtworkService) Delete(ctx context.Context, id string) error {
	if err := s.checkAuth(ctx); err != nil {
		return err
	}
	existing, err := s.store.Get(ctx, store.CollectionArtworks, id)
	if err != nil {
		return err
	}
	item, err := artworkFromRecord(existing)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, store.CollectionArtworks, id); err != nil {
		return err
	}
	removeAsset(ctx, s.uploader, item.PublicID, s.logger)
	return nil
}

func (s *ArtworkService) checkAuth(ctx context.Context) error {
	if s.requireAuth && auth.FromContext(ctx) == nil {
		return ErrAuthRequired
	}
	return nil
}

func (in ArtworkInput) normalized() ArtworkInput {
	return ArtworkInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
	}
}

func (in ArtworkInput) validate() error {
	switch {
	case in.Title == "":
		return required("title")
	case in.Description == "":
		return required("description")
	case in.Category == "":
		return required("category")
	}
	return nil
}

func artworkFromRecord(rec store.Record) (Artwork, error) {
	var item Artwork
	if err := decodeRecord(rec, &item); err != nil {
		return Artwork{}, err
	}
	item.ID = rec.ID
	return item, nil
}
