package main

import (
	"context"
	"fmt"

	"github.com/artfolio/internal/config"
	"github.com/artfolio/internal/db"
	"github.com/artfolio/internal/store"
	"github.com/artfolio/internal/upload"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// openStore 按配置选择记录存储后端，返回的 closer 负责释放连接
func openStore(ctx context.Context, cfg config.AppConfig, gdb *gorm.DB, logger *zap.Logger) (store.Store, func(context.Context) error, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMongo:
		mongoStore, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return store.Instrument(mongoStore, logger), mongoStore.Close, nil
	default:
		return store.Instrument(store.NewGormStore(gdb), logger), func(context.Context) error { return nil }, nil
	}
}

// newUploader 按配置选择图片上传后端
func newUploader(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (upload.Uploader, error) {
	switch cfg.UploadBackend {
	case config.UploadBackendPreset:
		return upload.Instrument(upload.NewPresetUploader(cfg.UploadEndpoint, cfg.UploadPreset), upload.BackendPreset, logger), nil
	case config.UploadBackendMinio:
		minioUploader, err := upload.NewMinioUploader(ctx, upload.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
			MaxBytes:  cfg.UploadMaxBytes,
		})
		if err != nil {
			return nil, err
		}
		return upload.Instrument(minioUploader, upload.BackendMinio, logger), nil
	case config.UploadBackendLocal:
		return upload.Instrument(upload.NewLocalUploader(cfg.UploadDir, cfg.UploadURLPath, cfg.UploadMaxBytes), upload.BackendLocal, logger), nil
	default:
		return nil, fmt.Errorf("unsupported upload backend %q", cfg.UploadBackend)
	}
}

func openDatabase(path string) (*gorm.DB, error) {
	gdb, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return gdb, nil
}

// openResources 打开 sqlite 与记录存储；返回的 dbHandle 负责统一释放
func openResources(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (store.Store, *dbHandle, error) {
	gdb, err := openDatabase(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	st, closeStore, err := openStore(ctx, cfg, gdb, logger)
	if err != nil {
		closeDatabase(gdb)
		return nil, nil, err
	}
	return st, &dbHandle{gdb: gdb, close: closeStore, logger: logger}, nil
}

type dbHandle struct {
	gdb    *gorm.DB
	close  func(context.Context) error
	logger *zap.Logger
}

func (h *dbHandle) Close(ctx context.Context) {
	if err := h.close(ctx); err != nil {
		h.logger.Warn("close store failed", zap.Error(err))
	}
	closeDatabase(h.gdb)
	_ = h.logger.Sync()
}

func closeDatabase(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
