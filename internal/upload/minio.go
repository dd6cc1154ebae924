package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BackendMinio S3 兼容对象存储
const BackendMinio = "minio"

// MinioConfig 描述对象存储连接信息
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL 是对外访问对象的基础地址，例如 CDN 域名
	PublicURL string
	MaxBytes  int64
}

// MinioUploader 将图片写入 S3 兼容的对象存储。
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
	maxBytes  int64
	now       func() time.Time
}

// NewMinioUploader 初始化客户端并确保 bucket 存在。
func NewMinioUploader(ctx context.Context, cfg MinioConfig) (*MinioUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioUploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		maxBytes:  cfg.MaxBytes,
		now:       time.Now,
	}, nil
}

// Upload 校验图片内容后写入对象存储，AssetID 为对象 key。
func (u *MinioUploader) Upload(ctx context.Context, file File) (Asset, error) {
	img, err := inspectImage(file, u.maxBytes)
	if err != nil {
		return Asset{}, &Error{Backend: BackendMinio, Message: err.Error(), Err: err}
	}

	key := objectKey(u.now(), img.extension)
	_, err = u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(img.data), int64(len(img.data)), minio.PutObjectOptions{
		ContentType: img.contentType,
	})
	if err != nil {
		return Asset{}, &Error{Backend: BackendMinio, Err: err}
	}

	return Asset{
		URL:     u.publicURL + "/" + u.bucket + "/" + key,
		AssetID: key,
		Width:   img.width,
		Height:  img.height,
	}, nil
}

// objectKey 生成对象 key，统一放在 artfolio/ 前缀下
func objectKey(now time.Time, extension string) string {
	return path.Join("artfolio", assetName(now, extension))
}

// Remove 删除对象
func (u *MinioUploader) Remove(ctx context.Context, assetID string) error {
	if err := u.client.RemoveObject(ctx, u.bucket, assetID, minio.RemoveObjectOptions{}); err != nil {
		return &Error{Backend: BackendMinio, Err: err}
	}
	return nil
}
