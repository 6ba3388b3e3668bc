// Package render writes analysis reports to the supported output
// formats: Markdown, HTML, DOCX and JSON.
package render

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"codoc/internal/analyze"
)

// badge builds a shields.io static badge for the README header.
func badge(label, value, color string) string {
	enc := func(s string) string {
		s = strings.ReplaceAll(s, "-", "--")
		s = strings.ReplaceAll(s, "_", "__")
		return url.PathEscape(s)
	}
	return fmt.Sprintf("![%s](https://img.shields.io/badge/%s-%s-%s)", label, enc(label), enc(value), color)
}

// BuildRepoMarkdown assembles the README document from a repo report.
// Empty sections are omitted.
func BuildRepoMarkdown(rep *analyze.RepoReport) string {
	var b strings.Builder

	name := rep.RepoInfo.Name
	if name == "" {
		name = "Project"
	}
	b.WriteString("# " + name + "\n\n")

	badges := []string{
		badge("Stars", fmt.Sprintf("%d", rep.RepoInfo.Stars), "yellow"),
		badge("Forks", fmt.Sprintf("%d", rep.RepoInfo.Forks), "blue"),
	}
	if rep.RepoInfo.Language != "" {
		badges = append(badges, badge("Language", rep.RepoInfo.Language, "informational"))
	}
	b.WriteString(strings.Join(badges, " ") + "\n\n")

	if rep.RepoInfo.Description != "" {
		b.WriteString(rep.RepoInfo.Description + "\n\n")
	}

	writeSection := func(title, body string) {
		body = strings.TrimSpace(body)
		if body == "" {
			return
		}
		b.WriteString("## " + title + "\n\n")
		b.WriteString(body + "\n\n")
	}

	writeSection("Overview", rep.Sections.Overview)

	if len(rep.RepoInfo.Topics) > 0 {
		tags := make([]string, 0, len(rep.RepoInfo.Topics))
		for _, t := range rep.RepoInfo.Topics {
			tags = append(tags, "`"+t+"`")
		}
		writeSection("Tags", strings.Join(tags, " "))
	}

	writeSection("Tech Stack", rep.Sections.TechStack)
	writeSection("Installation", rep.Sections.Installation)
	writeSection("Usage", rep.Sections.Usage)
	writeSection("Contributing", rep.Sections.Contributing)

	b.WriteString("## License\n\nSee the repository for license details.\n")
	return b.String()
}

// BuildSnippetMarkdown renders a snippet report as a Markdown document.
func BuildSnippetMarkdown(rep *analyze.SnippetReport) string {
	var b strings.Builder

	b.WriteString("# Code Analysis Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Language: %s\n\n", rep.Language))

	b.WriteString("## Original Code\n\n")
	fmt.Fprintf(&b, "```%s\n%s\n```\n\n", rep.Language, strings.TrimRight(rep.OriginalCode, "\n"))

	b.WriteString("## Analysis\n\n")
	if rep.Analysis.Raw != "" {
		b.WriteString(rep.Analysis.Raw + "\n\n")
	} else {
		if rep.Analysis.Description != "" {
			b.WriteString(rep.Analysis.Description + "\n\n")
		}
		b.WriteString(fmt.Sprintf("- **Time complexity:** %s\n", orDefault(rep.Analysis.TimeComplexity, "N/A")))
		b.WriteString(fmt.Sprintf("- **Space complexity:** %s\n", orDefault(rep.Analysis.SpaceComplexity, "N/A")))
		b.WriteString(fmt.Sprintf("- **Code quality score:** %d/10\n\n", rep.Analysis.CodeQualityScore))
		if len(rep.Analysis.Issues) > 0 {
			b.WriteString("### Issues\n\n")
			for _, issue := range rep.Analysis.Issues {
				b.WriteString("- " + issue + "\n")
			}
			b.WriteString("\n")
		}
		if len(rep.Analysis.ImprovementSuggestions) > 0 {
			b.WriteString("### Improvement Suggestions\n\n")
			for _, s := range rep.Analysis.ImprovementSuggestions {
				b.WriteString("- " + s + "\n")
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Optimized Version\n\n")
	if rep.Optimized.Raw != "" {
		b.WriteString(rep.Optimized.Raw + "\n\n")
	} else if rep.Optimized.OptimizedCode != "" {
		fmt.Fprintf(&b, "```%s\n%s\n```\n\n", rep.Language, strings.TrimRight(rep.Optimized.OptimizedCode, "\n"))
		if rep.Optimized.Explanation != "" {
			b.WriteString(rep.Optimized.Explanation + "\n\n")
		}
	} else {
		b.WriteString("No optimized version provided.\n\n")
	}

	b.WriteString("## Alternative Approaches\n\n")
	switch {
	case rep.Alternatives.Raw != "":
		b.WriteString(rep.Alternatives.Raw + "\n")
	case len(rep.Alternatives.Approaches) > 0:
		for i, a := range rep.Alternatives.Approaches {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, orDefault(a.Name, "Approach"))
			if a.Description != "" {
				b.WriteString(a.Description + "\n\n")
			}
			if a.TimeComplexity != "" {
				fmt.Fprintf(&b, "- **Time complexity:** %s\n", a.TimeComplexity)
			}
			if a.WhenToUse != "" {
				fmt.Fprintf(&b, "- **When to use:** %s\n", a.WhenToUse)
			}
			b.WriteString("\n")
		}
	default:
		b.WriteString("No alternative approaches provided.\n")
	}

	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// WriteMarkdown writes content to path, creating parent directories
// and enforcing the .md suffix.
func WriteMarkdown(path, content string) (string, error) {
	if !strings.HasSuffix(path, ".md") {
		path += ".md"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing markdown file: %w", err)
	}
	return path, nil
}
