// File: internal/services/chat/markdown_test.go
package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("**bold** and `code`")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "<code>code</code>")
}

func TestRenderMarkdownPlainText(t *testing.T) {
	html := RenderMarkdown("just a sentence")
	assert.Contains(t, html, "just a sentence")
}

func TestRenderMarkdownHardWraps(t *testing.T) {
	html := RenderMarkdown("line one\nline two")
	assert.Contains(t, html, "<br")
}

func TestRenderMarkdownEmpty(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}
