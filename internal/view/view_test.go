package view

import (
	"strings"
	"testing"

	"github.com/artfolio/internal/service"
	"github.com/google/go-cmp/cmp"
)

func TestTextClasses(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		style *service.TextStyle
		want  string
	}{
		{name: "title default", kind: TextTitle, want: "text-4xl font-bold text-gray-900"},
		{name: "caption default", kind: TextCaption, want: "text-sm text-gray-600"},
		{name: "unknown kind", kind: "banner", want: "text-base text-gray-700"},
		{
			name:  "content styled",
			kind:  TextContent,
			style: &service.TextStyle{FontSize: "large", Alignment: "justify", FontFamily: "serif"},
			want:  "text-base text-gray-700 text-lg text-justify font-serif",
		},
		{
			name:  "unknown values ignored",
			kind:  TextSubtitle,
			style: &service.TextStyle{FontSize: "huge", Alignment: "center", FontFamily: "comic"},
			want:  "text-xl text-gray-600 text-center",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextClasses(tt.kind, tt.style); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestImageLayoutAndSpacing(t *testing.T) {
	if got := ImageLayoutClasses("left").Figure; got != "float-left mr-8 mb-4 w-[300px] md:w-[400px]" {
		t.Fatalf("unexpected left figure classes %q", got)
	}
	if got := ImageLayoutClasses("RIGHT").Container; !strings.Contains(got, "after:clear-both") {
		t.Fatalf("unexpected right container classes %q", got)
	}
	if ImageLayoutClasses("unknown") != ImageLayoutClasses("full") {
		t.Fatal("expected unknown layout to fall back to full")
	}
	if SpacingClass("loose") != "space-y-8" || SpacingClass("") != "space-y-4" {
		t.Fatal("unexpected spacing classes")
	}
}

func TestThemeVariablesSkipEmpty(t *testing.T) {
	theme := service.DefaultTheme()
	theme.Accent = ""
	vars := ThemeVariables(theme)
	if len(vars) != 5 {
		t.Fatalf("expected 5 variables, got %d", len(vars))
	}
	if vars[0] != (CSSVariable{Name: "--color-primary", Value: "#9333EA"}) {
		t.Fatalf("unexpected first variable %#v", vars[0])
	}
	for _, v := range vars {
		if v.Name == "--color-accent" {
			t.Fatal("expected empty accent to be skipped")
		}
	}
}

func TestThemeCSSStripsInjection(t *testing.T) {
	css := ThemeCSS(service.Theme{Primary: "red;} body{display:none", Text: "#111"})
	want := ":root {\n  --color-primary: red bodydisplay:none;\n  --color-text: #111;\n}\n"
	if css != want {
		t.Fatalf("unexpected css:\n%s", css)
	}
}

func TestSocialLinks(t *testing.T) {
	links := SocialLinks(service.Profile{Instagram: "@ana.art", Behance: "https://www.behance.net/ana"})
	got := make([]string, 0, len(links))
	for _, link := range links {
		got = append(got, link.Platform+"="+link.URL)
	}
	want := []string{"instagram=https://instagram.com/ana.art", "behance=https://www.behance.net/ana"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}

	if links := SocialLinks(service.Profile{Instagram: "bad handle", Behance: "  "}); len(links) != 0 {
		t.Fatalf("expected invalid values to be skipped, got %#v", links)
	}
	if SocialIconSVG("unknown") != SocialIconSVG("") || SocialIconSVG("email") == SocialIconSVG("") {
		t.Fatal("unexpected icon fallback")
	}
}

func TestRenderContent(t *testing.T) {
	rendered, err := RenderContent("# Title\n\n<script>alert(1)</script>\n\n**bold**")
	if err != nil {
		t.Fatalf("render content: %v", err)
	}
	html := string(rendered)
	if strings.Contains(html, "<script") {
		t.Fatalf("expected script to be stripped: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") || !strings.Contains(html, "<h1") {
		t.Fatalf("expected markdown to be rendered: %s", html)
	}
}

func TestRenderContentVideoEmbeds(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		wantSrc  string
	}{
		{name: "youtube watch", markdown: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", wantSrc: "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ"},
		{name: "youtu.be", markdown: "<https://youtu.be/dQw4w9WgXcQ>", wantSrc: "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ"},
		{name: "vimeo", markdown: "https://vimeo.com/76979871", wantSrc: "https://player.vimeo.com/video/76979871"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := RenderContent(tt.markdown)
			if err != nil {
				t.Fatalf("render content: %v", err)
			}
			html := string(rendered)
			if !strings.Contains(html, "<iframe") || !strings.Contains(html, tt.wantSrc) {
				t.Fatalf("expected iframe with %s, got: %s", tt.wantSrc, html)
			}
		})
	}

	rendered, err := RenderContent("```\nhttps://vimeo.com/76979871\n```")
	if err != nil {
		t.Fatalf("render content: %v", err)
	}
	if strings.Contains(string(rendered), "<iframe") {
		t.Fatalf("expected links inside code fences to stay literal: %s", rendered)
	}

	rendered, err = RenderContent(`<iframe src="https://evil.example.com/x"></iframe>`)
	if err != nil {
		t.Fatalf("render content: %v", err)
	}
	if strings.Contains(string(rendered), "evil.example.com") {
		t.Fatalf("expected foreign iframe src to be stripped: %s", rendered)
	}
}

func TestBuildProjectView(t *testing.T) {
	project := service.Project{
		Title:     "Piece",
		Content:   "Some *text*",
		TextStyle: service.TextStyle{FontSize: "xl", Alignment: "center", FontFamily: "mono"},
		Spacing:   "tight",
		Images: []service.ProjectImage{
			{URL: "https://cdn.test/a.png", Layout: "right", Spacing: "loose"},
		},
	}
	pv, err := BuildProjectView(project)
	if err != nil {
		t.Fatalf("build project view: %v", err)
	}
	if pv.ContentClass != "text-base text-gray-700 text-xl text-center font-mono" {
		t.Fatalf("unexpected content class %q", pv.ContentClass)
	}
	if pv.SpacingClass != "space-y-2" || len(pv.Images) != 1 || pv.Images[0].SpacingClass != "space-y-8" {
		t.Fatalf("unexpected spacing %#v", pv)
	}
	if !strings.Contains(string(pv.ContentHTML), "<em>text</em>") {
		t.Fatalf("unexpected content html %q", pv.ContentHTML)
	}
	if pv.Images[0].Classes.Figure != ImageLayoutClasses("right").Figure {
		t.Fatal("unexpected image classes")
	}
}
