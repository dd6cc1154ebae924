package view

import (
	"net/url"
	"strings"

	"github.com/artfolio/internal/service"
)

// SocialLink 是资料页上的一个外部链接
type SocialLink struct {
	Platform string `json:"platform"`
	Label    string `json:"label"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

type socialPlatform struct {
	Key     string
	Label   string
	BaseURL string
	SVG     string
}

var (
	instagramPlatform = socialPlatform{Key: "instagram", Label: "Instagram", BaseURL: "https://instagram.com/", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><rect x="3" y="3" width="18" height="18" rx="5"/><circle cx="12" cy="12" r="4"/><circle cx="17.5" cy="6.5" r="0.75" fill="currentColor"/></svg>`}
	behancePlatform   = socialPlatform{Key: "behance", Label: "Behance", BaseURL: "https://www.behance.net/", SVG: `<svg viewBox="0 0 24 24" fill="currentColor" aria-hidden="true"><path d="M8.2 11.4c.9-.4 1.5-1.2 1.5-2.3 0-2-1.5-2.9-3.6-2.9H1v11.6h5.3c2.2 0 4-1.1 4-3.4 0-1.4-.7-2.5-2.1-3zM3.5 8.2h2.3c.9 0 1.5.3 1.5 1.2 0 .9-.6 1.3-1.5 1.3H3.5V8.2zm2.6 7.6H3.5v-3h2.6c1.1 0 1.7.5 1.7 1.5s-.7 1.5-1.7 1.5zM17.4 9.3c-2.6 0-4.3 1.9-4.3 4.4 0 2.6 1.6 4.3 4.3 4.3 2 0 3.4-.9 4-2.9h-2.1c-.2.6-.9 1-1.8 1-1.3 0-2-.7-2-2h6c.2-2.7-1.3-4.8-4.1-4.8zm-1.9 3.5c.1-1.1.8-1.7 1.8-1.7 1.1 0 1.7.6 1.8 1.7h-3.6zM15.3 6.9h4.4v1.2h-4.4z"/></svg>`}
	emailIcon         = `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M21.75 6.75v10.5a2.25 2.25 0 0 1-2.25 2.25h-15A2.25 2.25 0 0 1 2.25 17.25V6.75M21.75 6.75A2.25 2.25 0 0 0 19.5 4.5h-15A2.25 2.25 0 0 0 2.25 6.75v.243c0 .781.405 1.506 1.071 1.916l7.5 4.615a2.25 2.25 0 0 0 2.157 0l7.5-4.615a2.25 2.25 0 0 0 1.072-1.916V6.75"/></svg>`
	websiteIcon       = `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M12 21c4.193 0 7.716-2.867 8.716-6.747M12 21c-4.193 0-7.716-2.867-8.716-6.747M12 21c2.485 0 4.5-4.03 4.5-9s-2.015-9-4.5-9m0 18c-2.485 0-4.5-4.03-4.5-9s2.015-9 4.5-9m0-0c3.365 0 6.299 1.847 7.843 4.582M12 3c-3.365 0-6.299 1.847-7.843 4.582m15.686 0c.737 1.305 1.157 2.812 1.157 4.418 0 .778-.099 1.533-.284 2.253m-.873 4.836C18.133 15.685 15.162 16.5 12 16.5s-6.134-.815-8.716-2.247m0 0A8.948 8.948 0 0 1 3 12c0-1.605.42-3.112 1.157-4.417"/></svg>`
	defaultIcon       = `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M17.982 18.725C16.612 16.918 14.442 15.75 12 15.75s-4.612 1.168-5.982 2.975M17.982 18.725A8.97 8.97 0 0 0 21 12c0-4.971-4.03-9-9-9s-9 4.029-9 9a8.97 8.97 0 0 0 3.018 6.725M17.982 18.725C16.392 20.14 14.296 21 12 21s-4.392-.86-5.982-2.275M15 9.75a3 3 0 1 1-6 0 3 3 0 0 1 6 0Z"/></svg>`
)

// SocialLinks 将资料中的 instagram/behance 账号或链接转换为可渲染的链接，空值与非法链接跳过。
func SocialLinks(profile service.Profile) []SocialLink {
	links := make([]SocialLink, 0, 2)
	for _, entry := range []struct {
		platform socialPlatform
		value    string
	}{
		{instagramPlatform, profile.Instagram},
		{behancePlatform, profile.Behance},
	} {
		link, ok := resolveSocialURL(entry.platform, entry.value)
		if !ok {
			continue
		}
		links = append(links, SocialLink{
			Platform: entry.platform.Key,
			Label:    entry.platform.Label,
			URL:      link,
			Icon:     entry.platform.SVG,
		})
	}
	return links
}

// SocialIconSVG 按平台取图标，未知平台返回默认图标
func SocialIconSVG(key string) string {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case instagramPlatform.Key:
		return instagramPlatform.SVG
	case behancePlatform.Key:
		return behancePlatform.SVG
	case "email":
		return emailIcon
	case "website":
		return websiteIcon
	default:
		return defaultIcon
	}
}

// resolveSocialURL 接受完整链接或账号名（可带 @），返回 https 链接
func resolveSocialURL(platform socialPlatform, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Host == "" {
			return "", false
		}
		return parsed.String(), true
	}
	handle := strings.Trim(strings.TrimPrefix(value, "@"), "/")
	if handle == "" || strings.ContainsAny(handle, " /?#") {
		return "", false
	}
	return platform.BaseURL + url.PathEscape(handle), true
}
