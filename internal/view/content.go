package view

import (
	"bytes"
	"fmt"
	htmlstd "html"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	// 原始 HTML 交给 sanitizer 过滤，视频嵌入依赖这一点
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	contentSanitizer = buildContentSanitizer()

	videoEmbedSrcPattern  = regexp.MustCompile(`^https://(?:www\.youtube-nocookie\.com/embed/|player\.vimeo\.com/video/)`)
	videoEmbedLinePattern = regexp.MustCompile(`^<?(https?://\S+?)>?$`)
)

func buildContentSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("class", "data-video-embed", "data-video-platform").OnElements("div")
	policy.AllowAttrs("src").Matching(videoEmbedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "frameborder", "loading", "referrerpolicy").OnElements("iframe")
	return policy
}

// RenderContent 将项目正文从 Markdown 渲染为安全的 HTML。
// 单独成行的 YouTube/Vimeo 链接渲染为播放器。
func RenderContent(markdown string) (template.HTML, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(applyVideoEmbeds(markdown)), &buf); err != nil {
		return "", fmt.Errorf("render content: %w", err)
	}
	return template.HTML(contentSanitizer.SanitizeBytes(buf.Bytes())), nil
}

type videoEmbed struct {
	Platform string
	EmbedURL string
}

func applyVideoEmbeds(markdown string) string {
	lines := strings.Split(markdown, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			switch {
			case fence == "":
				fence = trimmed[:3]
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			continue
		}
		if fence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}
		match := videoEmbedLinePattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		if embed, ok := parseVideoEmbed(match[1]); ok {
			lines[i] = buildVideoEmbedHTML(embed)
		}
	}
	return strings.Join(lines, "\n")
}

func parseVideoEmbed(raw string) (videoEmbed, bool) {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return videoEmbed{}, false
	}
	host := strings.ToLower(parsed.Hostname())
	path := strings.Trim(parsed.Path, "/")

	switch {
	case host == "youtu.be":
		return youtubeEmbed(firstSegment(path))
	case isHostOrSubdomain(host, "youtube.com"):
		switch {
		case path == "watch":
			return youtubeEmbed(parsed.Query().Get("v"))
		case strings.HasPrefix(path, "shorts/"), strings.HasPrefix(path, "embed/"):
			return youtubeEmbed(firstSegment(path[strings.Index(path, "/")+1:]))
		}
	case isHostOrSubdomain(host, "vimeo.com"):
		id := firstSegment(path)
		if id != "" && onlyDigits(id) {
			return videoEmbed{Platform: "vimeo", EmbedURL: "https://player.vimeo.com/video/" + id}, true
		}
	}
	return videoEmbed{}, false
}

func youtubeEmbed(id string) (videoEmbed, bool) {
	if id == "" {
		return videoEmbed{}, false
	}
	return videoEmbed{
		Platform: "youtube",
		EmbedURL: "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id) + "?rel=0&playsinline=1",
	}, true
}

func buildVideoEmbedHTML(embed videoEmbed) string {
	return fmt.Sprintf(
		`<div class="video-embed" data-video-embed="true" data-video-platform="%s">`+
			`<iframe src="%s" title="%s" loading="lazy" allow="encrypted-media; picture-in-picture; fullscreen" allowfullscreen frameborder="0" referrerpolicy="strict-origin-when-cross-origin"></iframe>`+
			`</div>`,
		htmlstd.EscapeString(embed.Platform),
		htmlstd.EscapeString(embed.EmbedURL),
		htmlstd.EscapeString(embed.Platform+" player"),
	)
}

func firstSegment(path string) string {
	if idx := strings.Index(path, "/"); idx >= 0 {
		return path[:idx]
	}
	return path
}

func onlyDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}

func isHostOrSubdomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
