// Package locale resolves the request language and looks up user-facing messages.
package locale

import (
	"sort"
	"strconv"
	"strings"
)

const (
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "zh") || trimmed == "cn" {
		return LanguageChinese
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// LanguageFromAcceptLanguage 按 q 权重选出第一个受支持的语言
func LanguageFromAcceptLanguage(header string) string {
	type weighted struct {
		language string
		q        float64
		index    int
	}
	var candidates []weighted
	for i, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		language := NormalizeLanguage(tag)
		if language == "" {
			continue
		}
		q := 1.0
		if value, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if parsed, err := strconv.ParseFloat(value, 64); err == nil {
				q = parsed
			}
		}
		if q <= 0 {
			continue
		}
		candidates = append(candidates, weighted{language: language, q: q, index: i})
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].q != candidates[j].q {
			return candidates[i].q > candidates[j].q
		}
		return candidates[i].index < candidates[j].index
	})
	return candidates[0].language
}

// ContentLanguage 返回响应 Content-Language 头使用的语言标签
func ContentLanguage(language string) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		return "en-US"
	}
	return "zh-CN"
}
