package utils

import (
	"bytes"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const markdownCacheTTL = 30 * time.Minute

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

func init() {
	policy.AllowImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown turns user-supplied markdown into sanitized HTML.
func RenderMarkdown(source string) template.HTML {
	key := ContentKey("md", source)
	if cached, ok := GetCache().Get(key).(template.HTML); ok {
		return cached
	}

	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		// fall back to escaped plain text
		return template.HTML(template.HTMLEscapeString(source))
	}

	sanitized := policy.SanitizeBytes(buf.Bytes())
	out := EnhanceHTMLContent(string(sanitized))

	GetCache().Set(key, out, markdownCacheTTL)
	return out
}
