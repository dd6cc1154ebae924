package view

import (
	"strings"

	"github.com/artfolio/internal/service"
)

// CSSVariable 是一个 CSS 自定义属性
type CSSVariable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ThemeVariables 将配色转换为 --color-<key> 变量，空值跳过，顺序固定。
func ThemeVariables(theme service.Theme) []CSSVariable {
	pairs := []CSSVariable{
		{Name: "primary", Value: theme.Primary},
		{Name: "secondary", Value: theme.Secondary},
		{Name: "accent", Value: theme.Accent},
		{Name: "background", Value: theme.Background},
		{Name: "text", Value: theme.Text},
		{Name: "header", Value: theme.Header},
	}
	vars := make([]CSSVariable, 0, len(pairs))
	for _, pair := range pairs {
		value := strings.TrimSpace(pair.Value)
		if value == "" {
			continue
		}
		vars = append(vars, CSSVariable{Name: "--color-" + pair.Name, Value: value})
	}
	return vars
}

// ThemeCSS 渲染 :root 规则块
func ThemeCSS(theme service.Theme) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range ThemeVariables(theme) {
		b.WriteString("  ")
		b.WriteString(v.Name)
		b.WriteString(": ")
		b.WriteString(cssValue(v.Value))
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// cssValue 去掉可能闭合规则块或注入声明的字符
func cssValue(value string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '\n', '\r':
			return -1
		}
		return r
	}, value)
}
