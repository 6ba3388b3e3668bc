package analyze

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codoc/internal/config"
	"codoc/internal/scan"
)

func TestGenerateSections_Concise(t *testing.T) {
	client := &fakeClient{responses: []string{
		"overview text", "stack text", "install text", "usage text", "contributing text",
	}}

	var messages []string
	progress := func(_, message string) { messages = append(messages, message) }

	analyzer := NewRepoAnalyzer(client, progress)
	rc := &RepoContext{ReadmeExcerpt: "An example project."}
	report, err := analyzer.GenerateSections(context.Background(), rc, VerbosityConcise)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if report.Sections.Overview != "overview text" {
		t.Errorf("Unexpected overview: %s", report.Sections.Overview)
	}
	if report.Sections.Contributing != "contributing text" {
		t.Errorf("Unexpected contributing: %s", report.Sections.Contributing)
	}
	if client.calls != 5 {
		t.Errorf("Expected 5 LLM calls, got %d", client.calls)
	}
	if len(messages) != 5 || !strings.Contains(messages[0], "[1/5]") {
		t.Errorf("Unexpected progress messages: %v", messages)
	}

	// Concise instructions carry length limits, detailed ones do not.
	if !strings.Contains(client.prompts[0], "150 words max") {
		t.Error("Expected concise overview instruction")
	}
	for _, p := range client.prompts {
		if !strings.Contains(p, "An example project.") {
			t.Error("Expected repo context in every section prompt")
			break
		}
	}
}

func TestGenerateSections_Detailed(t *testing.T) {
	client := &fakeClient{responses: []string{"a", "b", "c", "d", "e"}}

	analyzer := NewRepoAnalyzer(client, nil)
	_, err := analyzer.GenerateSections(context.Background(), &RepoContext{}, VerbosityDetailed)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if strings.Contains(client.prompts[0], "150 words max") {
		t.Error("Expected detailed overview instruction")
	}
}

func TestGenerateSections_SectionError(t *testing.T) {
	client := &fakeClient{
		responses: []string{"overview"},
		errs:      []error{nil, errors.New("boom")},
	}

	analyzer := NewRepoAnalyzer(client, nil)
	_, err := analyzer.GenerateSections(context.Background(), &RepoContext{}, VerbosityConcise)
	if err == nil {
		t.Fatal("Expected error when a section call fails")
	}
	if !strings.Contains(err.Error(), "tech_stack") {
		t.Errorf("Expected failing section in error, got: %v", err)
	}
}

func TestBuildLocalContext(t *testing.T) {
	tempDir := t.TempDir()
	files := map[string]string{
		"README.md": "# My Project\nIt does things.",
		"go.mod":    "module example.com/myproject",
		"main.go":   "package main",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}

	explorer := scan.NewExplorer(config.ExplorerConfig{}, 4)
	resolver := scan.NewResolver(tempDir, 3)
	analyzer := NewRepoAnalyzer(&fakeClient{}, nil)

	rc, err := analyzer.BuildLocalContext(tempDir, explorer, resolver, 1024)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if rc.RepoInfo.Name != filepath.Base(tempDir) {
		t.Errorf("Expected project name %s, got: %s", filepath.Base(tempDir), rc.RepoInfo.Name)
	}
	if rc.RepoInfo.Language != "Go" {
		t.Errorf("Expected Go from go.mod, got: %s", rc.RepoInfo.Language)
	}
	if !strings.Contains(rc.ReadmeExcerpt, "My Project") {
		t.Error("Expected README excerpt")
	}
	if len(rc.Structure) == 0 {
		t.Error("Expected directory structure")
	}
	if len(rc.ImportantFiles) == 0 {
		t.Error("Expected important files")
	}
}

func TestParseVerbosity(t *testing.T) {
	if ParseVerbosity("detailed") != VerbosityDetailed {
		t.Error("Expected detailed")
	}
	if ParseVerbosity("concise") != VerbosityConcise {
		t.Error("Expected concise")
	}
	if ParseVerbosity("") != VerbosityConcise {
		t.Error("Expected concise default")
	}
	if ParseVerbosity("verbose") != VerbosityConcise {
		t.Error("Expected concise for unknown values")
	}
}
