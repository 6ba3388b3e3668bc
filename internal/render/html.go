package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

var htmlRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
body { max-width: 860px; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; color: #24292f; }
pre { padding: 1rem; overflow-x: auto; border-radius: 6px; }
code { font-family: ui-monospace, monospace; font-size: 0.9em; }
h1, h2 { border-bottom: 1px solid #d0d7de; padding-bottom: 0.3em; }
</style>
</head>
<body>
%s
</body>
</html>
`

// MarkdownToHTML converts a Markdown document into a standalone HTML page.
func MarkdownToHTML(title, markdown string) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown to HTML: %w", err)
	}
	return fmt.Sprintf(htmlPage, title, buf.String()), nil
}

// WriteHTML converts markdown and writes the page to path, creating
// parent directories and enforcing the .html suffix.
func WriteHTML(path, title, markdown string) (string, error) {
	if !strings.HasSuffix(path, ".html") {
		path += ".html"
	}
	page, err := MarkdownToHTML(title, markdown)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("writing HTML file: %w", err)
	}
	return path, nil
}
