package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codoc/internal/analyze"
	"codoc/internal/githubapi"
)

func sampleRepoReport() *analyze.RepoReport {
	return &analyze.RepoReport{
		ID:          "test-id",
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		RepoInfo: githubapi.RepoInfo{
			Name:        "myproject",
			Description: "A test project",
			Stars:       42,
			Forks:       7,
			Language:    "Go",
			Topics:      []string{"cli", "docs"},
		},
		Sections: analyze.RepoSections{
			Overview:     "It does things.",
			TechStack:    "- Go",
			Installation: "go install",
			Usage:        "run it",
			Contributing: "open a PR",
		},
	}
}

func TestBuildRepoMarkdown(t *testing.T) {
	md := BuildRepoMarkdown(sampleRepoReport())

	if !strings.HasPrefix(md, "# myproject\n") {
		t.Error("Expected title heading")
	}
	if !strings.Contains(md, "img.shields.io/badge") {
		t.Error("Expected shields.io badges")
	}
	if !strings.Contains(md, "A test project") {
		t.Error("Expected description")
	}
	for _, section := range []string{"## Overview", "## Tags", "## Tech Stack", "## Installation", "## Usage", "## Contributing", "## License"} {
		if !strings.Contains(md, section) {
			t.Errorf("Expected section %q", section)
		}
	}
	if !strings.Contains(md, "`cli` `docs`") {
		t.Error("Expected topics as inline code tags")
	}
}

func TestBuildRepoMarkdown_OmitsEmptySections(t *testing.T) {
	rep := sampleRepoReport()
	rep.Sections.Installation = ""
	rep.RepoInfo.Topics = nil

	md := BuildRepoMarkdown(rep)
	if strings.Contains(md, "## Installation") {
		t.Error("Expected empty Installation section to be omitted")
	}
	if strings.Contains(md, "## Tags") {
		t.Error("Expected Tags section omitted without topics")
	}
}

func TestBuildSnippetMarkdown(t *testing.T) {
	rep := &analyze.SnippetReport{
		GeneratedAt:  time.Now().UTC(),
		OriginalCode: "print('hi')",
		Language:     "python",
		Analysis: analyze.CodeAnalysis{
			Description:      "prints a greeting",
			TimeComplexity:   "O(1)",
			SpaceComplexity:  "O(1)",
			CodeQualityScore: 9,
			Issues:           []string{"none really"},
		},
		Optimized: analyze.OptimizedVersion{
			OptimizedCode: "print('hi')",
			Explanation:   "already minimal",
		},
		Alternatives: analyze.Alternatives{
			Approaches: []analyze.Approach{
				{Name: "Logging", Description: "use logging", TimeComplexity: "O(1)", WhenToUse: "in services"},
			},
		},
	}

	md := BuildSnippetMarkdown(rep)
	if !strings.Contains(md, "```python\nprint('hi')\n```") {
		t.Error("Expected fenced original code")
	}
	if !strings.Contains(md, "O(1)") {
		t.Error("Expected complexity")
	}
	if !strings.Contains(md, "9/10") {
		t.Error("Expected quality score")
	}
	if !strings.Contains(md, "### 1. Logging") {
		t.Error("Expected numbered alternative")
	}
}

func TestBuildSnippetMarkdown_RawFallback(t *testing.T) {
	rep := &analyze.SnippetReport{
		GeneratedAt:  time.Now().UTC(),
		OriginalCode: "x",
		Language:     "go",
		Analysis:     analyze.CodeAnalysis{Raw: "free-form analysis text"},
	}

	md := BuildSnippetMarkdown(rep)
	if !strings.Contains(md, "free-form analysis text") {
		t.Error("Expected raw analysis text")
	}
	if !strings.Contains(md, "No optimized version provided.") {
		t.Error("Expected optimized fallback text")
	}
	if !strings.Contains(md, "No alternative approaches provided.") {
		t.Error("Expected alternatives fallback text")
	}
}

func TestWriteMarkdown_SuffixAndDirs(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "sub", "dir", "README")

	path, err := WriteMarkdown(target, "# Hello")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("Expected .md suffix, got: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected file to exist: %v", err)
	}
	if string(data) != "# Hello" {
		t.Errorf("Unexpected content: %s", data)
	}
}
