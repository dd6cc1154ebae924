package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/locale"
	"github.com/artfolio/internal/service"
	"github.com/artfolio/internal/store"
	"github.com/artfolio/internal/upload"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func (a *API) message(c *gin.Context, key string, args ...any) string {
	return locale.Message(a.language(c), key, args...)
}

func (a *API) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, a.message(c, locale.MsgInvalidRequest))
		return false
	}
	return true
}

// respondServiceError 把服务层错误映射为状态码与本地化提示
func (a *API) respondServiceError(c *gin.Context, err error) {
	var (
		validation *service.ValidationError
		uploadErr  *upload.Error
	)
	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, a.message(c, locale.MsgValidation, validation.Field))
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, a.message(c, locale.MsgInvalidRequest))
	case errors.Is(err, service.ErrAuthRequired):
		respondError(c, http.StatusUnauthorized, a.message(c, locale.MsgAuthRequired))
	case errors.Is(err, auth.ErrRoleUnavailable):
		respondError(c, http.StatusUnauthorized, a.message(c, locale.MsgRoleUnavailable))
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, a.message(c, locale.MsgNotFound))
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, a.message(c, locale.MsgCategoryNotFound))
	case errors.Is(err, service.ErrCategoryProtected):
		respondError(c, http.StatusConflict, a.message(c, locale.MsgCategoryProtected))
	case errors.Is(err, service.ErrCategoryExists):
		respondError(c, http.StatusConflict, a.message(c, locale.MsgCategoryExists))
	case errors.Is(err, store.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, a.message(c, locale.MsgPermissionDenied))
	case errors.As(err, &uploadErr):
		a.logger.Warn("upload failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusBadGateway, a.message(c, locale.MsgUploadFailed))
	default:
		a.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, a.message(c, locale.MsgInternal))
	}
}

// openFormImage 打开表单中的图片字段；字段不存在时返回 nil。
// 调用方负责执行返回的 closer。
func openFormImage(c *gin.Context, field string) (*upload.File, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, fmt.Errorf("read form file %s: %w", field, err)
	}
	return openFileHeader(header)
}

func openFileHeader(header *multipart.FileHeader) (*upload.File, func(), error) {
	src, err := header.Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("open form file %s: %w", header.Filename, err)
	}
	file := &upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      src,
	}
	return file, func() { src.Close() }, nil
}

func parsePositiveInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func idParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}
