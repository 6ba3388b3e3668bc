// Package analyze turns code and repositories into structured
// documentation data through language-model calls.
package analyze

import (
	"time"

	"codoc/internal/githubapi"
)

// Verbosity selects how long generated README sections are.
type Verbosity string

const (
	VerbosityConcise  Verbosity = "concise"
	VerbosityDetailed Verbosity = "detailed"
)

// ParseVerbosity normalizes a user-supplied verbosity value.
func ParseVerbosity(s string) Verbosity {
	if Verbosity(s) == VerbosityDetailed {
		return VerbosityDetailed
	}
	return VerbosityConcise
}

// CodeAnalysis is the structured result of the first snippet call.
type CodeAnalysis struct {
	Description            string   `json:"description"`
	TimeComplexity         string   `json:"time_complexity"`
	SpaceComplexity        string   `json:"space_complexity"`
	CodeQualityScore       int      `json:"code_quality_score"`
	Issues                 []string `json:"issues"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	// Raw keeps the model output when it could not be parsed as JSON.
	Raw string `json:"raw,omitempty"`
}

// OptimizedVersion is the improved code plus its explanation.
type OptimizedVersion struct {
	OptimizedCode string `json:"optimized_code"`
	Explanation   string `json:"explanation"`
	Raw           string `json:"raw,omitempty"`
}

// Approach is one alternative way to solve the same problem.
type Approach struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	TimeComplexity string `json:"time_complexity"`
	WhenToUse      string `json:"when_to_use"`
}

// Alternatives holds the proposed alternative approaches.
type Alternatives struct {
	Approaches []Approach `json:"approaches"`
	Raw        string     `json:"raw,omitempty"`
}

// SnippetReport is the full analysis of one code snippet.
type SnippetReport struct {
	ID           string           `json:"id"`
	GeneratedAt  time.Time        `json:"generated_at"`
	OriginalCode string           `json:"original_code"`
	Language     string           `json:"language"`
	Analysis     CodeAnalysis     `json:"analysis"`
	Optimized    OptimizedVersion `json:"optimized_version"`
	Alternatives Alternatives     `json:"alternatives"`
}

// RepoSections are the generated README sections, in document order.
type RepoSections struct {
	Overview     string `json:"overview"`
	TechStack    string `json:"tech_stack"`
	Installation string `json:"installation"`
	Usage        string `json:"usage"`
	Contributing string `json:"contributing"`
}

// RepoReport is the full analysis of a repository.
type RepoReport struct {
	ID          string             `json:"id"`
	GeneratedAt time.Time          `json:"generated_at"`
	RepoInfo    githubapi.RepoInfo `json:"repo_info"`
	Sections    RepoSections       `json:"analysis"`
}

// RepoContext is what section generation sees about the repository.
type RepoContext struct {
	RepoInfo       githubapi.RepoInfo        `json:"repo_info"`
	ImportantFiles []githubapi.ImportantFile `json:"important_files"`
	ReadmeExcerpt  string                    `json:"readme_excerpt"`
	// Structure and ExplorationNotes are filled for local projects.
	Structure        map[string]any `json:"structure,omitempty"`
	ExplorationNotes []string       `json:"exploration_notes,omitempty"`
}

// Progress reports a human-readable step to the caller (CLI line,
// SSE event). A nil Progress is valid and discards updates.
type Progress func(step, message string)

func (p Progress) report(step, message string) {
	if p != nil {
		p(step, message)
	}
}
