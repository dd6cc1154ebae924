package handler

import (
	"net/http"
	"strings"

	"github.com/artfolio/internal/locale"
	"github.com/artfolio/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func artworkInputFromForm(c *gin.Context) service.ArtworkInput {
	return service.ArtworkInput{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Category:    strings.TrimSpace(c.PostForm("category")),
	}
}

// CreateArtwork 接收 multipart 表单：title、description、category 与图片字段 image
func (a *API) CreateArtwork(c *gin.Context) {
	file, closeFile, err := openFormImage(c, "image")
	if err != nil {
		respondError(c, http.StatusBadRequest, a.message(c, locale.MsgInvalidRequest))
		return
	}
	defer closeFile()
	if file == nil {
		respondError(c, http.StatusBadRequest, a.message(c, locale.MsgImageRequired))
		return
	}

	artwork, err := a.artworks.Create(c.Request.Context(), artworkInputFromForm(c), file)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	a.refreshGallery(c)
	c.JSON(http.StatusCreated, gin.H{"message": a.message(c, locale.MsgSaved), "item": artwork})
}

// UpdateArtwork 更新作品，image 字段可选
func (a *API) UpdateArtwork(c *gin.Context) {
	file, closeFile, err := openFormImage(c, "image")
	if err != nil {
		respondError(c, http.StatusBadRequest, a.message(c, locale.MsgInvalidRequest))
		return
	}
	defer closeFile()

	artwork, err := a.artworks.Update(c.Request.Context(), idParam(c), artworkInputFromForm(c), file)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	a.refreshGallery(c)
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgSaved), "item": artwork})
}

// DeleteArtwork 删除作品
func (a *API) DeleteArtwork(c *gin.Context) {
	if err := a.artworks.Delete(c.Request.Context(), idParam(c)); err != nil {
		a.respondServiceError(c, err)
		return
	}
	a.refreshGallery(c)
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgDeleted)})
}

// refreshGallery 写入成功后刷新画廊缓存，失败只记录日志
func (a *API) refreshGallery(c *gin.Context) {
	if err := a.gallery.RefreshArtworks(c.Request.Context()); err != nil {
		a.logger.Warn("refresh gallery artworks failed", zap.Error(err))
	}
}
