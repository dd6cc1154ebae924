// Package upload sends image files to the configured blob storage backend.
package upload

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// File is one image waiting to be uploaded.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Asset is the stored result of an upload.
type Asset struct {
	URL     string `json:"url"`
	AssetID string `json:"assetId,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Uploader stores one file and returns its public location.
type Uploader interface {
	Upload(ctx context.Context, file File) (Asset, error)
}

// Remover deletes a previously uploaded asset.
type Remover interface {
	Remove(ctx context.Context, assetID string) error
}

// Error is returned for every failed upload or removal.
type Error struct {
	Backend    string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("upload via %s failed: status %d: %s", e.Backend, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("upload via %s failed: status %d", e.Backend, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("upload via %s failed: %v", e.Backend, e.Err)
	default:
		return fmt.Sprintf("upload via %s failed: %s", e.Backend, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// assetName 生成按日期归档的唯一文件名，extension 必须来自内容嗅探
func assetName(now time.Time, extension string) string {
	return fmt.Sprintf("%s-%s%s", now.Format("20060102"), uuid.NewString(), extension)
}
