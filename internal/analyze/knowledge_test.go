package analyze

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestKnowledgeBase_AddFileContent(t *testing.T) {
	kb := NewKnowledgeBase(t.TempDir())

	kb.AddFileContent(filepath.Join(kb.ProjectPath, "src", "main.go"), "package main")
	if kb.FileCount() != 1 {
		t.Errorf("Expected 1 file, got %d", kb.FileCount())
	}

	summary := kb.ContextSummary("test goal", 10000)
	if !strings.Contains(summary, filepath.Join("src", "main.go")) {
		t.Error("Expected relative file path in summary")
	}
}

func TestKnowledgeBase_DedupNotes(t *testing.T) {
	kb := NewKnowledgeBase(t.TempDir())

	kb.AddNote("same note")
	kb.AddNote("same note")
	kb.AddNote("different note")
	kb.AddNote("same note")

	notes := kb.Notes()
	if len(notes) != 3 {
		t.Errorf("Expected 3 notes after consecutive dedup, got %d: %v", len(notes), notes)
	}
}

func TestKnowledgeBase_SetProjectType(t *testing.T) {
	kb := NewKnowledgeBase(t.TempDir())

	if kb.ProjectType != "unknown" {
		t.Errorf("Expected initial type 'unknown', got: %s", kb.ProjectType)
	}
	kb.SetProjectType("Go Backend")
	if kb.ProjectType != "Go Backend" {
		t.Errorf("Expected type update, got: %s", kb.ProjectType)
	}
	kb.SetProjectType("")
	if kb.ProjectType != "Go Backend" {
		t.Error("Expected empty type to be ignored")
	}
}

func TestContextSummary_MaxLen(t *testing.T) {
	kb := NewKnowledgeBase(t.TempDir())
	for i := 0; i < 50; i++ {
		kb.AddNote(strings.Repeat("n", 100) + string(rune('a'+i%26)))
	}

	summary := kb.ContextSummary("goal", 500)
	if len(summary) > 500 {
		t.Errorf("Expected summary capped at 500, got %d", len(summary))
	}
}

func TestParsePlan(t *testing.T) {
	plan := parsePlan(`Here is my plan:
1. READ_FILE main.go
2. ANALYZE the entry point
3. FINISH
4. READ_FILE ignored.go`)

	want := []string{"READ_FILE main.go", "ANALYZE the entry point", "FINISH"}
	if len(plan) != len(want) {
		t.Fatalf("Expected %d steps, got %d: %v", len(want), len(plan), plan)
	}
	for i := range want {
		if plan[i] != want[i] {
			t.Errorf("Step %d: expected %q, got %q", i, want[i], plan[i])
		}
	}
}

func TestParsePlan_IgnoresNoise(t *testing.T) {
	plan := parsePlan(`I think we should:
- READ_FILE not-numbered.go
1. DANCE around
2. READ_FILE
3. ANALYZE error handling`)

	if len(plan) != 1 || plan[0] != "ANALYZE error handling" {
		t.Errorf("Expected only the valid ANALYZE step, got: %v", plan)
	}
}

func TestParsePlan_Empty(t *testing.T) {
	if plan := parsePlan(""); len(plan) != 0 {
		t.Errorf("Expected empty plan, got: %v", plan)
	}
}
