package upload

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// BackendLocal 本地磁盘存储
const BackendLocal = "local"

// LocalUploader 将图片保存到上传目录，并通过静态文件路由对外提供访问。
type LocalUploader struct {
	dir      string
	urlPath  string
	maxBytes int64
	now      func() time.Time
}

// NewLocalUploader 构造 LocalUploader，urlPath 为静态路由前缀，如 /static/uploads。
func NewLocalUploader(dir, urlPath string, maxBytes int64) *LocalUploader {
	return &LocalUploader{
		dir:      dir,
		urlPath:  "/" + strings.Trim(urlPath, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Upload 校验图片内容后写入上传目录，返回可访问的 URL；AssetID 为文件名。
func (u *LocalUploader) Upload(ctx context.Context, file File) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, &Error{Backend: BackendLocal, Err: err}
	}

	img, err := inspectImage(file, u.maxBytes)
	if err != nil {
		return Asset{}, &Error{Backend: BackendLocal, Message: err.Error(), Err: err}
	}

	// 创建上传目录
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return Asset{}, &Error{Backend: BackendLocal, Message: "创建上传目录失败", Err: err}
	}

	name := assetName(u.now(), img.extension)

	if err := os.WriteFile(filepath.Join(u.dir, name), img.data, 0o644); err != nil {
		return Asset{}, &Error{Backend: BackendLocal, Message: "保存文件失败", Err: err}
	}

	return Asset{
		URL:     path.Join(u.urlPath, name),
		AssetID: name,
		Width:   img.width,
		Height:  img.height,
	}, nil
}

// Remove 删除已保存的文件，文件不存在视为成功。
func (u *LocalUploader) Remove(_ context.Context, assetID string) error {
	name := filepath.Base(strings.TrimSpace(assetID))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return &Error{Backend: BackendLocal, Message: "invalid asset id"}
	}
	if err := os.Remove(filepath.Join(u.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &Error{Backend: BackendLocal, Err: err}
	}
	return nil
}
