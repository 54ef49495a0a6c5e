// File: internal/services/chat/markdown.go
package chat

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Assistant replies arrive as markdown; the transcript view wants HTML.
// Raw HTML inside the markdown stays escaped.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderMarkdown converts message content to HTML for display. On render
// failure the raw text is returned so the transcript never goes blank.
func RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return content
	}
	return buf.String()
}
