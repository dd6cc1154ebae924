package service

import (
	"context"
	"strings"
	"time"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/store"
	"github.com/artfolio/internal/upload"
)

// Profile 是站点唯一的作者资料
type Profile struct {
	Name          string     `json:"name"`
	Bio           string     `json:"bio"`
	PhotoURL      string     `json:"photoUrl"`
	PhotoPublicID string     `json:"photoPublicId,omitempty"`
	Instagram     string     `json:"instagram"`
	Behance       string     `json:"behance"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// ProfileInput 表示可编辑的资料字段，照片通过单独的文件参数上传
type ProfileInput struct {
	Name      string
	Bio       string
	PhotoURL  string
	Instagram string
	Behance   string
}

// ProfileService 维护 profile/main 单例文档
type ProfileService struct {
	store    store.Store
	uploader upload.Uploader
	clock    clock
}

// NewProfileService 构造 ProfileService
func NewProfileService(st store.Store, uploader upload.Uploader) *ProfileService {
	return &ProfileService{store: st, uploader: uploader}
}

// Get 返回作者资料，从未保存过时返回 store.ErrNotFound
func (s *ProfileService) Get(ctx context.Context) (*Profile, error) {
	rec, err := s.store.Get(ctx, store.CollectionProfile, store.SingletonID)
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err := decodeRecord(rec, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update 整体覆盖作者资料；photo 非空时先上传，URL 写入 photoUrl。
func (s *ProfileService) Update(ctx context.Context, input ProfileInput, photo *upload.File) (*Profile, error) {
	if auth.FromContext(ctx) == nil {
		return nil, ErrAuthRequired
	}

	profile := Profile{
		Name:      strings.TrimSpace(input.Name),
		Bio:       strings.TrimSpace(input.Bio),
		PhotoURL:  strings.TrimSpace(input.PhotoURL),
		Instagram: strings.TrimSpace(input.Instagram),
		Behance:   strings.TrimSpace(input.Behance),
	}
	if profile.Name == "" {
		return nil, required("name")
	}

	if photo != nil {
		asset, err := s.uploader.Upload(ctx, *photo)
		if err != nil {
			return nil, err
		}
		profile.PhotoURL = asset.URL
		profile.PhotoPublicID = asset.AssetID
	}

	now := s.clock.now()
	profile.UpdatedAt = &now
	fields, err := encodeFields(profile, map[string]time.Time{fieldUpdatedAt: now})
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, store.CollectionProfile, store.SingletonID, fields); err != nil {
		return nil, err
	}
	return &profile, nil
}
