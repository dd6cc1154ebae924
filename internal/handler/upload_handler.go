package handler

import (
	"net/http"

	"github.com/artfolio/internal/locale"
	"github.com/gin-gonic/gin"
)

// UploadImage 上传单张图片，返回 Markdown 编辑器使用的格式
func (a *API) UploadImage(c *gin.Context) {
	file, closeFile, err := openFormImage(c, "image")
	if err != nil || file == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": a.message(c, locale.MsgImageRequired), "success": 0})
		return
	}
	defer closeFile()

	asset, err := a.uploader.Upload(c.Request.Context(), *file)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": 1,
		"message": a.message(c, locale.MsgUploaded),
		"data": gin.H{
			"filePath": asset.URL,
			"url":      asset.URL,
			"assetId":  asset.AssetID,
			"width":    asset.Width,
			"height":   asset.Height,
		},
	})
}
