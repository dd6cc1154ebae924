// Package view derives presentation hints (CSS classes, theme variables,
// rendered content) from stored entities.
package view

import (
	"strings"

	"github.com/artfolio/internal/service"
)

// 文本块类型
const (
	TextTitle    = "title"
	TextSubtitle = "subtitle"
	TextContent  = "content"
	TextCaption  = "caption"
)

var defaultTextClasses = map[string]string{
	TextTitle:    "text-4xl font-bold text-gray-900",
	TextSubtitle: "text-xl text-gray-600",
	TextContent:  "text-base text-gray-700",
	TextCaption:  "text-sm text-gray-600",
}

var (
	fontSizeClasses = map[string]string{
		service.FontSizeNormal: "text-base",
		service.FontSizeLarge:  "text-lg",
		service.FontSizeXL:     "text-xl",
	}
	alignmentClasses = map[string]string{
		service.AlignLeft:    "text-left",
		service.AlignCenter:  "text-center",
		service.AlignJustify: "text-justify",
	}
	fontFamilyClasses = map[string]string{
		service.FontSans:  "font-sans",
		service.FontSerif: "font-serif",
		service.FontMono:  "font-mono",
	}
)

// TextClasses 组合文本块的默认样式与自定义正文样式，未知取值忽略。
// 未知 kind 按 content 处理。
func TextClasses(kind string, style *service.TextStyle) string {
	base, ok := defaultTextClasses[kind]
	if !ok {
		base = defaultTextClasses[TextContent]
	}
	classes := []string{base}
	if style != nil {
		for _, class := range []string{
			fontSizeClasses[strings.ToLower(style.FontSize)],
			alignmentClasses[strings.ToLower(style.Alignment)],
			fontFamilyClasses[strings.ToLower(style.FontFamily)],
		} {
			if class != "" {
				classes = append(classes, class)
			}
		}
	}
	return strings.Join(classes, " ")
}

// ImageLayout 是一张配图的容器与 figure 样式
type ImageLayout struct {
	Container string `json:"container"`
	Figure    string `json:"figure"`
}

var imageLayouts = map[string]ImageLayout{
	service.LayoutFull: {
		Container: "w-full mb-8",
		Figure:    "w-full mb-8 clear-both",
	},
	service.LayoutLeft: {
		Container: "w-full mb-4 after:content-[''] after:clear-both after:table",
		Figure:    "float-left mr-8 mb-4 w-[300px] md:w-[400px]",
	},
	service.LayoutRight: {
		Container: "w-full mb-4 after:content-[''] after:clear-both after:table",
		Figure:    "float-right ml-8 mb-4 w-[300px] md:w-[400px]",
	},
}

// ImageLayoutClasses 返回排版对应的样式，未知排版按 full 处理
func ImageLayoutClasses(layout string) ImageLayout {
	if classes, ok := imageLayouts[strings.ToLower(strings.TrimSpace(layout))]; ok {
		return classes
	}
	return imageLayouts[service.LayoutFull]
}

var spacingClasses = map[string]string{
	service.SpacingTight:  "space-y-2",
	service.SpacingNormal: "space-y-4",
	service.SpacingLoose:  "space-y-8",
}

// SpacingClass 返回间距样式，未知取值按 normal 处理
func SpacingClass(spacing string) string {
	if class, ok := spacingClasses[strings.ToLower(strings.TrimSpace(spacing))]; ok {
		return class
	}
	return spacingClasses[service.SpacingNormal]
}
