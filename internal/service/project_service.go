package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/logging"
	"github.com/artfolio/internal/store"
	"github.com/artfolio/internal/upload"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 图片排版与间距取值
const (
	LayoutFull  = "full"
	LayoutLeft  = "left"
	LayoutRight = "right"

	SpacingTight  = "tight"
	SpacingNormal = "normal"
	SpacingLoose  = "loose"
)

// 正文样式取值
const (
	FontSizeNormal = "normal"
	FontSizeLarge  = "large"
	FontSizeXL     = "xl"

	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignJustify = "justify"

	FontSans  = "sans"
	FontSerif = "serif"
	FontMono  = "mono"
)

// TextStyle 控制项目正文的字号、对齐与字体
type TextStyle struct {
	FontSize   string `json:"fontSize"`
	Alignment  string `json:"alignment"`
	FontFamily string `json:"fontFamily"`
}

// DefaultTextStyle 返回未设置时使用的正文样式
func DefaultTextStyle() TextStyle {
	return TextStyle{FontSize: FontSizeNormal, Alignment: AlignLeft, FontFamily: FontSans}
}

// ProjectImage 是项目详情中的一张配图
type ProjectImage struct {
	URL         string `json:"url"`
	PublicID    string `json:"publicId,omitempty"`
	Description string `json:"description"`
	Layout      string `json:"layout"`
	Spacing     string `json:"spacing"`
	Content     string `json:"content,omitempty"`
}

// Project 是一个带封面与多张配图的作品项目
type Project struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Content       string         `json:"content"`
	CoverURL      string         `json:"coverUrl"`
	CoverPublicID string         `json:"coverPublicId,omitempty"`
	Images        []ProjectImage `json:"images"`
	TextStyle     TextStyle      `json:"textStyle"`
	Spacing       string         `json:"spacing"`
	UserID        string         `json:"userId"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     *time.Time     `json:"updatedAt,omitempty"`
}

// ProjectImageInput 是表单中的一张配图：要么带待上传文件，要么沿用已有 URL。
type ProjectImageInput struct {
	ProjectImage
	File *upload.File
}

// ProjectInput 表示创建或更新项目时可设置的字段
type ProjectInput struct {
	Title       string
	Description string
	Content     string
	Images      []ProjectImageInput
	TextStyle   TextStyle
	Spacing     string
}

// ProjectService 负责项目的保存流程：鉴权、校验、并发上传、组装、写入。
type ProjectService struct {
	store    store.Store
	uploader upload.Uploader
	logger   *zap.Logger
	clock    clock
}

// NewProjectService 构造 ProjectService
func NewProjectService(st store.Store, uploader upload.Uploader, logger *zap.Logger) *ProjectService {
	return &ProjectService{store: st, uploader: uploader, logger: logging.OrNop(logger).Named("project")}
}

// List returns every project, newest first.
func (s *ProjectService) List(ctx context.Context) ([]Project, error) {
	records, err := s.store.List(ctx, store.CollectionProjects, newestFirst())
	if err != nil {
		return nil, err
	}
	items := make([]Project, 0, len(records))
	for _, rec := range records {
		item, err := projectFromRecord(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Get fetches one project; a missing id yields store.ErrNotFound.
func (s *ProjectService) Get(ctx context.Context, id string) (*Project, error) {
	rec, err := s.store.Get(ctx, store.CollectionProjects, id)
	if err != nil {
		return nil, err
	}
	item, err := projectFromRecord(rec)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create 保存新项目，封面必填；所有上传完成后才写记录。
func (s *ProjectService) Create(ctx context.Context, input ProjectInput, cover *upload.File) (*Project, error) {
	principal := auth.FromContext(ctx)
	if principal == nil {
		return nil, ErrAuthRequired
	}
	input, err := input.normalized()
	if err != nil {
		return nil, err
	}
	if cover == nil {
		return nil, required("cover")
	}

	uploaded, err := s.uploadAll(ctx, cover, input.Images)
	if err != nil {
		return nil, err
	}

	item := Project{
		Title:         input.Title,
		Description:   input.Description,
		Content:       input.Content,
		CoverURL:      uploaded.cover.URL,
		CoverPublicID: uploaded.cover.AssetID,
		Images:        uploaded.images,
		TextStyle:     input.TextStyle,
		Spacing:       input.Spacing,
		UserID:        principal.ID,
		CreatedAt:     s.clock.now(),
	}
	fields, err := encodeFields(item, map[string]time.Time{fieldCreatedAt: item.CreatedAt})
	if err != nil {
		return nil, err
	}
	id, err := s.store.Create(ctx, store.CollectionProjects, fields)
	if err != nil {
		return nil, err
	}
	item.ID = id
	return &item, nil
}

// Update 更新已有项目；cover 为空时沿用原封面。createdAt 与 userId 始终取自原记录。
func (s *ProjectService) Update(ctx context.Context, id string, input ProjectInput, cover *upload.File) (*Project, error) {
	if auth.FromContext(ctx) == nil {
		return nil, ErrAuthRequired
	}
	input, err := input.normalized()
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Get(ctx, store.CollectionProjects, id)
	if err != nil {
		return nil, err
	}
	previous, err := projectFromRecord(existing)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.uploadAll(ctx, cover, input.Images)
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	item := Project{
		ID:            id,
		Title:         input.Title,
		Description:   input.Description,
		Content:       input.Content,
		CoverURL:      previous.CoverURL,
		CoverPublicID: previous.CoverPublicID,
		Images:        uploaded.images,
		TextStyle:     input.TextStyle,
		Spacing:       input.Spacing,
		UserID:        previous.UserID,
		CreatedAt:     previous.CreatedAt,
		UpdatedAt:     &now,
	}
	if cover != nil {
		item.CoverURL = uploaded.cover.URL
		item.CoverPublicID = uploaded.cover.AssetID
	}

	partial, err := encodeFields(item, map[string]time.Time{fieldUpdatedAt: now})
	if err != nil {
		return nil, err
	}
	// 原记录的 createdAt/userId 不随本次写入覆盖
	delete(partial, fieldCreatedAt)
	delete(partial, "userId")

	if err := s.store.Update(ctx, store.CollectionProjects, id, partial); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete 删除项目记录，已上传的图片不做清理。
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if auth.FromContext(ctx) == nil {
		return ErrAuthRequired
	}
	return s.store.Delete(ctx, store.CollectionProjects, id)
}

type uploadedProjectImages struct {
	cover  upload.Asset
	images []ProjectImage
}

// uploadAll 并发上传封面与待上传配图，任一失败即整体失败。
func (s *ProjectService) uploadAll(ctx context.Context, cover *upload.File, images []ProjectImageInput) (uploadedProjectImages, error) {
	result := uploadedProjectImages{images: make([]ProjectImage, len(images))}
	for i, img := range images {
		result.images[i] = img.ProjectImage
	}

	g, gctx := errgroup.WithContext(ctx)
	pending := 0
	if cover != nil {
		file := *cover
		pending++
		g.Go(func() error {
			asset, err := s.uploader.Upload(gctx, file)
			if err != nil {
				return err
			}
			result.cover = asset
			return nil
		})
	}
	for i, img := range images {
		if img.File == nil {
			continue
		}
		file := *img.File
		pending++
		g.Go(func() error {
			asset, err := s.uploader.Upload(gctx, file)
			if err != nil {
				return err
			}
			result.images[i].URL = asset.URL
			result.images[i].PublicID = asset.AssetID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return uploadedProjectImages{}, err
	}
	if pending > 0 {
		s.logger.Debug("project images uploaded", zap.Int("count", pending))
	}
	return result, nil
}

func (in ProjectInput) normalized() (ProjectInput, error) {
	out := ProjectInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Content:     strings.TrimSpace(in.Content),
		Images:      make([]ProjectImageInput, len(in.Images)),
	}
	switch {
	case out.Title == "":
		return ProjectInput{}, required("title")
	case out.Description == "":
		return ProjectInput{}, required("description")
	case out.Content == "":
		return ProjectInput{}, required("content")
	}

	style, err := normalizeTextStyle(in.TextStyle)
	if err != nil {
		return ProjectInput{}, err
	}
	out.TextStyle = style

	spacing, ok := normalizeSpacing(in.Spacing)
	if !ok {
		return ProjectInput{}, invalid("spacing")
	}
	out.Spacing = spacing

	for i, img := range in.Images {
		field := "images[" + strconv.Itoa(i) + "]"
		entry := ProjectImageInput{
			ProjectImage: ProjectImage{
				URL:         strings.TrimSpace(img.URL),
				PublicID:    strings.TrimSpace(img.PublicID),
				Description: strings.TrimSpace(img.Description),
				Content:     strings.TrimSpace(img.Content),
			},
			File: img.File,
		}
		if entry.File == nil && entry.URL == "" {
			return ProjectInput{}, required(field + ".file")
		}
		layout, ok := normalizeLayout(img.Layout)
		if !ok {
			return ProjectInput{}, invalid(field + ".layout")
		}
		entry.Layout = layout
		imgSpacing, ok := normalizeSpacing(img.Spacing)
		if !ok {
			return ProjectInput{}, invalid(field + ".spacing")
		}
		entry.Spacing = imgSpacing
		out.Images[i] = entry
	}
	return out, nil
}

func normalizeLayout(layout string) (string, bool) {
	switch value := strings.ToLower(strings.TrimSpace(layout)); value {
	case "":
		return LayoutFull, true
	case LayoutFull, LayoutLeft, LayoutRight:
		return value, true
	default:
		return "", false
	}
}

func normalizeSpacing(spacing string) (string, bool) {
	switch value := strings.ToLower(strings.TrimSpace(spacing)); value {
	case "":
		return SpacingNormal, true
	case SpacingTight, SpacingNormal, SpacingLoose:
		return value, true
	default:
		return "", false
	}
}

func normalizeTextStyle(style TextStyle) (TextStyle, error) {
	out := DefaultTextStyle()
	if value := strings.ToLower(strings.TrimSpace(style.FontSize)); value != "" {
		if value != FontSizeNormal && value != FontSizeLarge && value != FontSizeXL {
			return TextStyle{}, invalid("textStyle.fontSize")
		}
		out.FontSize = value
	}
	if value := strings.ToLower(strings.TrimSpace(style.Alignment)); value != "" {
		if value != AlignLeft && value != AlignCenter && value != AlignJustify {
			return TextStyle{}, invalid("textStyle.alignment")
		}
		out.Alignment = value
	}
	if value := strings.ToLower(strings.TrimSpace(style.FontFamily)); value != "" {
		if value != FontSans && value != FontSerif && value != FontMono {
			return TextStyle{}, invalid("textStyle.fontFamily")
		}
		out.FontFamily = value
	}
	return out, nil
}

func projectFromRecord(rec store.Record) (Project, error) {
	var item Project
	if err := decodeRecord(rec, &item); err != nil {
		return Project{}, err
	}
	item.ID = rec.ID
	if item.Images == nil {
		item.Images = []ProjectImage{}
	}
	return item, nil
}
