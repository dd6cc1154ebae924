package service

import (
	"context"
	"strings"
	"time"

	"github.com/artfolio/internal/store"
	"github.com/artfolio/internal/upload"
	"go.uber.org/zap"
)

const (
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
)

// clock 统一时间来源，测试中可替换
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// encodeFields 将结构体编码为字段表，id 不入库；时间戳以 time.Time 写入以便存储端按时间排序。
func encodeFields(v any, stamps map[string]time.Time) (store.Fields, error) {
	fields, err := store.Encode(v)
	if err != nil {
		return nil, err
	}
	delete(fields, "id")
	for key, value := range stamps {
		fields[key] = value
	}
	return fields, nil
}

func decodeRecord(rec store.Record, v any) error {
	return store.Decode(rec.Fields, v)
}

func newestFirst() store.Order {
	return store.Order{Field: fieldCreatedAt, Desc: true}
}

// removeAsset 尽力删除旧资源，失败只记录日志
func removeAsset(ctx context.Context, uploader upload.Uploader, assetID string, logger *zap.Logger) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return
	}
	remover, ok := uploader.(upload.Remover)
	if !ok {
		return
	}
	if err := remover.Remove(ctx, assetID); err != nil {
		logger.Warn("failed to remove previous asset", zap.String("asset", assetID), zap.Error(err))
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
