package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"

	"codoc/internal/analyze"
)

const (
	titleSize   = "40"
	headingSize = "32"
	accentColor = "2E74B5"
	codeFont    = "Courier New"
)

// WriteSnippetDocx renders a snippet report as a Word document,
// creating parent directories and enforcing the .docx suffix.
func WriteSnippetDocx(path string, rep *analyze.SnippetReport) (string, error) {
	if !strings.HasSuffix(path, ".docx") {
		path += ".docx"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText("Code Analysis Report").Size(titleSize).Color(accentColor)
	doc.AddParagraph().AddText("Generated: " + rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	doc.AddParagraph().AddText("Language: " + rep.Language)
	doc.AddParagraph()

	addHeading := func(text string) {
		doc.AddParagraph().AddText(text).Size(headingSize).Color(accentColor)
	}
	addLines := func(text string) {
		for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			doc.AddParagraph().AddText(line)
		}
	}
	addCodeLines := func(text string) {
		for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			doc.AddParagraph().AddText(line).Font(codeFont, codeFont, codeFont, "default")
		}
	}

	addHeading("Original Code")
	addCodeLines(rep.OriginalCode)
	doc.AddParagraph()

	addHeading("Analysis")
	if rep.Analysis.Raw != "" {
		addLines(rep.Analysis.Raw)
	} else {
		addLines(orDefault(rep.Analysis.Description, "No description provided."))
		doc.AddParagraph().AddText("Time complexity: " + orDefault(rep.Analysis.TimeComplexity, "N/A"))
		doc.AddParagraph().AddText("Space complexity: " + orDefault(rep.Analysis.SpaceComplexity, "N/A"))
		doc.AddParagraph().AddText(fmt.Sprintf("Code quality score: %d/10", rep.Analysis.CodeQualityScore))
		if len(rep.Analysis.Issues) > 0 {
			doc.AddParagraph().AddText("Issues:")
			for _, issue := range rep.Analysis.Issues {
				doc.AddParagraph().AddText("- " + issue)
			}
		} else {
			doc.AddParagraph().AddText("No major issues identified or not provided.")
		}
		if len(rep.Analysis.ImprovementSuggestions) > 0 {
			doc.AddParagraph().AddText("Improvement suggestions:")
			for _, s := range rep.Analysis.ImprovementSuggestions {
				doc.AddParagraph().AddText("- " + s)
			}
		}
	}
	doc.AddParagraph()

	addHeading("Optimized Version")
	switch {
	case rep.Optimized.Raw != "":
		addLines(rep.Optimized.Raw)
	case rep.Optimized.OptimizedCode != "":
		addCodeLines(rep.Optimized.OptimizedCode)
		if rep.Optimized.Explanation != "" {
			doc.AddParagraph()
			addLines(rep.Optimized.Explanation)
		}
	default:
		doc.AddParagraph().AddText("No optimized version provided.")
	}
	doc.AddParagraph()

	addHeading("Alternative Approaches")
	switch {
	case rep.Alternatives.Raw != "":
		addLines(rep.Alternatives.Raw)
	case len(rep.Alternatives.Approaches) > 0:
		for i, a := range rep.Alternatives.Approaches {
			doc.AddParagraph().AddText(fmt.Sprintf("%d. %s", i+1, orDefault(a.Name, "Approach")))
			if a.Description != "" {
				addLines(a.Description)
			}
			if a.TimeComplexity != "" {
				doc.AddParagraph().AddText("Time complexity: " + a.TimeComplexity)
			}
			if a.WhenToUse != "" {
				doc.AddParagraph().AddText("When to use: " + a.WhenToUse)
			}
		}
	default:
		doc.AddParagraph().AddText("No alternative approaches provided.")
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating docx file: %w", err)
	}
	defer f.Close()
	if _, err := doc.WriteTo(f); err != nil {
		return "", fmt.Errorf("writing docx file: %w", err)
	}
	return path, nil
}
