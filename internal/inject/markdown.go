package inject

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// markdownSuffix marks content fields whose values are authored as Markdown
// and rendered to HTML during substitution.
const markdownSuffix = "__md"

// MarkdownRenderer converts Markdown field values into HTML. Stateless, safe
// for reuse across renders.
type MarkdownRenderer struct {
	engine goldmark.Markdown
}

// NewMarkdownRenderer configures a GFM renderer. Raw HTML passes through
// untouched since field values are trusted page-builder content.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts a Markdown source string to HTML.
func (r *MarkdownRenderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}
