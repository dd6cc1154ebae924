package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/artfolio/internal/locale"
	"github.com/artfolio/internal/service"
	"github.com/artfolio/internal/upload"
	"github.com/gin-gonic/gin"
)

type projectPayload struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Content     string                 `json:"content"`
	TextStyle   service.TextStyle      `json:"textStyle"`
	Spacing     string                 `json:"spacing"`
	Images      []service.ProjectImage `json:"images"`
}

// projectFiles 持有表单中打开的文件，请求结束时统一关闭
type projectFiles struct {
	cover   *upload.File
	closers []func()
}

func (f *projectFiles) Close() {
	for _, closeFn := range f.closers {
		closeFn()
	}
}

// readProjectForm 解析项目表单。multipart 请求用 payload 字段携带 JSON，
// 封面放在 cover，第 n 张配图的新文件放在 images[n]；JSON 请求不带新文件。
func (a *API) readProjectForm(c *gin.Context) (service.ProjectInput, *projectFiles, error) {
	var payload projectPayload
	files := &projectFiles{}

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&payload); err != nil {
			return service.ProjectInput{}, files, err
		}
		return payload.toInput(), files, nil
	}

	if err := json.Unmarshal([]byte(c.PostForm("payload")), &payload); err != nil {
		return service.ProjectInput{}, files, fmt.Errorf("decode payload: %w", err)
	}
	input := payload.toInput()

	cover, closeCover, err := openFormImage(c, "cover")
	files.closers = append(files.closers, closeCover)
	if err != nil {
		return service.ProjectInput{}, files, err
	}
	files.cover = cover

	for i := range input.Images {
		file, closeFile, err := openFormImage(c, fmt.Sprintf("images[%d]", i))
		files.closers = append(files.closers, closeFile)
		if err != nil {
			return service.ProjectInput{}, files, err
		}
		input.Images[i].File = file
	}
	return input, files, nil
}

func (p projectPayload) toInput() service.ProjectInput {
	images := make([]service.ProjectImageInput, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, service.ProjectImageInput{ProjectImage: img})
	}
	return service.ProjectInput{
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		Images:      images,
		TextStyle:   p.TextStyle,
		Spacing:     p.Spacing,
	}
}

// CreateProject 创建项目，封面必填
func (a *API) CreateProject(c *gin.Context) {
	input, files, err := a.readProjectForm(c)
	defer files.Close()
	if err != nil {
		respondError(c, http.StatusBadRequest, a.message(c, locale.MsgInvalidRequest))
		return
	}

	project, err := a.projects.Create(c.Request.Context(), input, files.cover)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": a.message(c, locale.MsgSaved), "item": project})
}

// UpdateProject 更新项目，未上传的图片沿用 payload 中的 URL
func (a *API) UpdateProject(c *gin.Context) {
	input, files, err := a.readProjectForm(c)
	defer files.Close()
	if err != nil {
		respondError(c, http.StatusBadRequest, a.message(c, locale.MsgInvalidRequest))
		return
	}

	project, err := a.projects.Update(c.Request.Context(), idParam(c), input, files.cover)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgSaved), "item": project})
}

// DeleteProject 删除项目
func (a *API) DeleteProject(c *gin.Context) {
	if err := a.projects.Delete(c.Request.Context(), idParam(c)); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": a.message(c, locale.MsgDeleted)})
}
