// Package markdown converts model output to HTML for the web page.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// renderer escapes raw HTML in the source (goldmark's default, no html.WithUnsafe).
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// ToHTML renders GitHub-style markdown, including pipe tables, to HTML.
func ToHTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	// goldmark output is safe to embed: raw HTML from the source is omitted.
	return template.HTML(buf.String()), nil
}
