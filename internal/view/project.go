package view

import (
	"html/template"

	"github.com/artfolio/internal/service"
)

// ProjectImageView 是带排版样式的配图
type ProjectImageView struct {
	service.ProjectImage
	Classes      ImageLayout   `json:"classes"`
	SpacingClass string        `json:"spacingClass"`
	ContentHTML  template.HTML `json:"contentHtml,omitempty"`
}

// ProjectView 是项目详情页所需的派生数据
type ProjectView struct {
	service.Project
	ContentHTML   template.HTML      `json:"contentHtml"`
	TitleClass    string             `json:"titleClass"`
	SubtitleClass string             `json:"subtitleClass"`
	ContentClass  string             `json:"contentClass"`
	SpacingClass  string             `json:"spacingClass"`
	Images        []ProjectImageView `json:"images"`
}

// BuildProjectView 渲染正文并计算各部分样式
func BuildProjectView(project service.Project) (ProjectView, error) {
	content, err := RenderContent(project.Content)
	if err != nil {
		return ProjectView{}, err
	}
	style := project.TextStyle
	out := ProjectView{
		Project:       project,
		ContentHTML:   content,
		TitleClass:    TextClasses(TextTitle, nil),
		SubtitleClass: TextClasses(TextSubtitle, nil),
		ContentClass:  TextClasses(TextContent, &style),
		SpacingClass:  SpacingClass(project.Spacing),
		Images:        make([]ProjectImageView, 0, len(project.Images)),
	}
	for _, img := range project.Images {
		imageContent, err := RenderContent(img.Content)
		if err != nil {
			return ProjectView{}, err
		}
		out.Images = append(out.Images, ProjectImageView{
			ProjectImage: img,
			Classes:      ImageLayoutClasses(img.Layout),
			SpacingClass: SpacingClass(img.Spacing),
			ContentHTML:  imageContent,
		})
	}
	return out, nil
}
