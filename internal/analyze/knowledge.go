package analyze

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// KnowledgeBase stores what has been learned about a project during
// exploration. Safe for concurrent use.
type KnowledgeBase struct {
	ProjectPath   string
	Structure     map[string]any
	ProjectType   string
	ReadmeContent string

	mu           sync.Mutex
	fileContents map[string]string
	notes        []string
	history      []string
}

// NewKnowledgeBase creates a KnowledgeBase rooted at projectPath.
func NewKnowledgeBase(projectPath string) *KnowledgeBase {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		logrus.Warnf("Could not resolve absolute path for %s: %v", projectPath, err)
		absPath = projectPath
	}
	return &KnowledgeBase{
		ProjectPath:  absPath,
		Structure:    make(map[string]any),
		ProjectType:  "unknown",
		fileContents: make(map[string]string),
	}
}

// AddFileContent records the content of a file, keyed by project-relative path.
func (kb *KnowledgeBase) AddFileContent(absFilepath, content string) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	relPath, err := filepath.Rel(kb.ProjectPath, absFilepath)
	if err != nil {
		logrus.Warnf("Could not get relative path for %s: %v. Using absolute path.", absFilepath, err)
		relPath = absFilepath
	}
	kb.fileContents[relPath] = content
	logrus.Debugf("Content added/updated for '%s'", relPath)
}

// AddNote records an analysis note, skipping consecutive duplicates.
func (kb *KnowledgeBase) AddNote(note string) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if len(kb.notes) == 0 || kb.notes[len(kb.notes)-1] != note {
		kb.notes = append(kb.notes, note)
	}
}

// AddHistory records an exploration action, skipping consecutive duplicates.
func (kb *KnowledgeBase) AddHistory(action string) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if len(kb.history) == 0 || kb.history[len(kb.history)-1] != action {
		kb.history = append(kb.history, action)
	}
}

// SetProjectType updates the estimated project type.
func (kb *KnowledgeBase) SetProjectType(pType string) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if pType != "" && kb.ProjectType != pType {
		kb.ProjectType = pType
		logrus.Infof("Project type updated: %s", pType)
	}
}

// Notes returns a copy of the analysis notes.
func (kb *KnowledgeBase) Notes() []string {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return append([]string(nil), kb.notes...)
}

// FileCount returns how many files have been recorded.
func (kb *KnowledgeBase) FileCount() int {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return len(kb.fileContents)
}

// ContextSummary builds the prompt context for the given goal, keeping
// the total size under maxLen.
func (kb *KnowledgeBase) ContextSummary(goal string, maxLen int) string {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	var summary strings.Builder
	summary.WriteString(fmt.Sprintf("Goal: %q\n", goal))
	summary.WriteString(fmt.Sprintf("Project: %s (Type: %s)\n", filepath.Base(kb.ProjectPath), kb.ProjectType))

	if len(kb.Structure) > 0 {
		structureBytes, err := json.MarshalIndent(kb.Structure, "", "  ")
		if err == nil {
			structureStr := string(structureBytes)
			const maxStructureLen = 1800
			if len(structureStr) > maxStructureLen {
				structureStr = structureStr[:maxStructureLen] + "\n...(structure truncated)"
			}
			summary.WriteString(fmt.Sprintf("\nProject structure (partial):\n```json\n%s\n```\n", structureStr))
		}
	}

	summary.WriteString("\nFiles read (excerpts):\n")
	if len(kb.fileContents) == 0 {
		summary.WriteString("(none)\n")
	} else {
		count := 0
		for path, content := range kb.fileContents {
			excerpt := strings.ReplaceAll(strings.ReplaceAll(content, "`", ""), "\n", " ")
			if len(excerpt) > 80 {
				excerpt = excerpt[:80]
			}
			summary.WriteString(fmt.Sprintf("- `%s`: %s...\n", path, excerpt))
			count++
			if count >= 5 {
				summary.WriteString(fmt.Sprintf("... and %d more files read.\n", len(kb.fileContents)-count))
				break
			}
		}
	}

	if len(kb.notes) > 0 {
		summary.WriteString("\nAnalysis notes:\n")
		for _, note := range kb.notes {
			summary.WriteString("- " + note + "\n")
			if summary.Len() > maxLen {
				break
			}
		}
	}

	if len(kb.history) > 0 {
		summary.WriteString("\nExploration history:\n")
		for _, h := range kb.history {
			summary.WriteString("- " + h + "\n")
		}
	}

	out := summary.String()
	if maxLen > 0 && len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}

// FullFileContext returns the recorded file contents joined for a final
// synthesis prompt, capped at maxLen.
func (kb *KnowledgeBase) FullFileContext(maxLen int) string {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	var b strings.Builder
	for path, content := range kb.fileContents {
		b.WriteString(fmt.Sprintf("\n--- %s ---\n%s\n", path, content))
		if maxLen > 0 && b.Len() > maxLen {
			break
		}
	}
	out := b.String()
	if maxLen > 0 && len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}
