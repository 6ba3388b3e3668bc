package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMarkdownToHTML(t *testing.T) {
	page, err := MarkdownToHTML("Test Page", "# Title\n\nSome **bold** text.\n\n```go\npackage main\n```")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(page, "<title>Test Page</title>") {
		t.Error("Expected page title")
	}
	if !strings.Contains(page, "<h1") {
		t.Error("Expected rendered heading")
	}
	if !strings.Contains(page, "<strong>bold</strong>") {
		t.Error("Expected rendered bold text")
	}
	// Highlighted code blocks carry inline styles from chroma.
	if !strings.Contains(page, "<pre") {
		t.Error("Expected code block")
	}
}

func TestMarkdownToHTML_GFMTable(t *testing.T) {
	page, err := MarkdownToHTML("t", "| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(page, "<table>") {
		t.Error("Expected GFM table rendering")
	}
}

func TestWriteHTML(t *testing.T) {
	tempDir := t.TempDir()
	path, err := WriteHTML(filepath.Join(tempDir, "out", "doc"), "Doc", "# Hi")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.HasSuffix(path, ".html") {
		t.Errorf("Expected .html suffix, got: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected file to exist: %v", err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Error("Expected standalone HTML page")
	}
}
