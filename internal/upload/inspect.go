package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

// ErrNotImage 表示上传内容不是图片
var ErrNotImage = errors.New("only image files are allowed")

// rasterExtensions 列出允许保存的位图类型及落盘扩展名。
// svg 可以内嵌脚本，不在此列。
var rasterExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// inspected 是读入内存并确认为图片的文件内容
type inspected struct {
	data        []byte
	contentType string
	extension   string
	width       int
	height      int
}

// inspectImage 读取文件内容，按内容嗅探类型并解析尺寸。
// 扩展名只取自嗅探结果，客户端文件名不参与。
// maxBytes <= 0 表示不限制大小。
func inspectImage(file File, maxBytes int64) (inspected, error) {
	if file.Reader == nil {
		return inspected{}, errors.New("file content is empty")
	}

	reader := file.Reader
	if maxBytes > 0 {
		reader = io.LimitReader(file.Reader, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return inspected{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return inspected{}, errors.New("file content is empty")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return inspected{}, fmt.Errorf("file exceeds %d bytes", maxBytes)
	}

	detected := mimetype.Detect(data)
	ext, ok := rasterExtensions[detected.String()]
	if !ok {
		return inspected{}, ErrNotImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return inspected{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	return inspected{
		data:        data,
		contentType: detected.String(),
		extension:   ext,
		width:       cfg.Width,
		height:      cfg.Height,
	}, nil
}
