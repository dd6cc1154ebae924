package handler

import (
	"net/http"
	"strings"

	"github.com/artfolio/internal/locale"
	"github.com/artfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// UpdateProfile 接收 multipart 表单：name、bio、instagram、behance、photoUrl 与可选的 photo 文件
func (a *API) UpdateProfile(c *gin.Context) {
	photo, closePhoto, err := openFormImage(c, "photo")
	if err != nil {
		respondError(c, http.StatusBadRequest, a.message(c, locale.MsgInvalidRequest))
		return
	}
	defer closePhoto()

	input := service.ProfileInput{
		Name:      strings.TrimSpace(c.PostForm("name")),
		Bio:       strings.TrimSpace(c.PostForm("bio")),
		PhotoURL:  strings.TrimSpace(c.PostForm("photoUrl")),
		Instagram: strings.TrimSpace(c.PostForm("instagram")),
		Behance:   strings.TrimSpace(c.PostForm("behance")),
	}
	profile, err := a.profiles.Update(c.Request.Context(), input, photo)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgSaved), "profile": profile})
}

// GetGallerySettings 返回后台编辑用的画廊配置
func (a *API) GetGallerySettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": a.gallery.Settings()})
}

// UpdateGallerySettings 整体替换画廊配置
func (a *API) UpdateGallerySettings(c *gin.Context) {
	var settings service.GallerySettings
	if !a.bindJSON(c, &settings) {
		return
	}
	if err := a.gallery.UpdateSettings(c.Request.Context(), settings); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgSaved), "settings": a.gallery.Settings()})
}

// AddGalleryCategory 追加分类
func (a *API) AddGalleryCategory(c *gin.Context) {
	var category service.Category
	if !a.bindJSON(c, &category) {
		return
	}
	category.ID = strings.TrimSpace(category.ID)
	category.Name = strings.TrimSpace(category.Name)
	if category.ID == "" || category.Name == "" {
		respondError(c, http.StatusBadRequest, a.message(c, locale.MsgInvalidRequest))
		return
	}

	if err := a.gallery.AddCategory(c.Request.Context(), category); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": a.message(c, locale.MsgSaved), "settings": a.gallery.Settings()})
}

// RemoveGalleryCategory 移除分类，all 分类不可移除
func (a *API) RemoveGalleryCategory(c *gin.Context) {
	if err := a.gallery.RemoveCategory(c.Request.Context(), idParam(c)); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgDeleted), "settings": a.gallery.Settings()})
}

// UpdateTheme 保存配色
func (a *API) UpdateTheme(c *gin.Context) {
	var theme service.Theme
	if !a.bindJSON(c, &theme) {
		return
	}
	if err := a.theme.Update(c.Request.Context(), theme); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgSaved), "theme": a.theme.Theme()})
}

// ResetTheme 恢复默认配色
func (a *API) ResetTheme(c *gin.Context) {
	if err := a.theme.Reset(c.Request.Context()); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgSaved), "theme": a.theme.Theme()})
}

type roleRequest struct {
	Role string `json:"role"`
}

// SetUserRole 修改用户角色
func (a *API) SetUserRole(c *gin.Context) {
	var req roleRequest
	if !a.bindJSON(c, &req) {
		return
	}
	if err := a.users.SetRole(c.Request.Context(), idParam(c), req.Role); err != nil {
		a.respondServiceError(c, err)
		return
	}
	user, err := a.users.Get(c.Request.Context(), idParam(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgSaved), "user": user})
}
