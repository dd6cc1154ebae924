package upload

import (
	"context"
	"errors"
	"time"

	"github.com/artfolio/internal/logging"
	"github.com/artfolio/internal/metrics"
	"go.uber.org/zap"
)

type instrumented struct {
	next    Uploader
	backend string
	logger  *zap.Logger
}

// Instrument 为上传器附加日志与指标；被包装的上传器支持 Remove 时同样转发。
func Instrument(next Uploader, backend string, logger *zap.Logger) Uploader {
	return &instrumented{next: next, backend: backend, logger: logging.OrNop(logger).Named("upload")}
}

func (u *instrumented) Upload(ctx context.Context, file File) (Asset, error) {
	start := time.Now()
	asset, err := u.next.Upload(ctx, file)
	metrics.UploadDuration.WithLabelValues(u.backend).Observe(time.Since(start).Seconds())
	metrics.Uploads.WithLabelValues(u.backend, metrics.Result(err)).Inc()

	if err != nil {
		u.logger.Warn("image upload failed",
			zap.String("backend", u.backend),
			zap.String("file", file.Name),
			zap.Error(err),
		)
		var uploadErr *Error
		if !errors.As(err, &uploadErr) {
			err = &Error{Backend: u.backend, Err: err}
		}
		return Asset{}, err
	}

	u.logger.Info("image uploaded",
		zap.String("backend", u.backend),
		zap.String("file", file.Name),
		zap.String("asset", asset.AssetID),
		zap.Duration("elapsed", time.Since(start)),
	)
	return asset, nil
}

func (u *instrumented) Remove(ctx context.Context, assetID string) error {
	remover, ok := u.next.(Remover)
	if !ok {
		return nil
	}
	err := remover.Remove(ctx, assetID)
	if err != nil {
		u.logger.Warn("image removal failed", zap.String("backend", u.backend), zap.String("asset", assetID), zap.Error(err))
	}
	return err
}
