package analyze

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"codoc/internal/llm"
)

// SnippetAnalyzer runs the three-call analysis of a single code snippet.
type SnippetAnalyzer struct {
	client   llm.Client
	progress Progress
}

// NewSnippetAnalyzer creates a SnippetAnalyzer. progress may be nil.
func NewSnippetAnalyzer(client llm.Client, progress Progress) *SnippetAnalyzer {
	return &SnippetAnalyzer{client: client, progress: progress}
}

// Analyze runs analysis, optimization and alternatives sequentially.
// A sub-call whose JSON cannot be parsed degrades to a raw capture;
// only transport errors fail the run.
func (a *SnippetAnalyzer) Analyze(ctx context.Context, code, language string) (*SnippetReport, error) {
	if language == "" {
		language = "Unknown"
	}

	report := &SnippetReport{
		ID:           uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		OriginalCode: code,
		Language:     language,
	}

	a.progress.report("analysis", "[1/3] Running detailed analysis...")
	analysis, err := a.analyzeCode(ctx, code, language)
	if err != nil {
		return nil, fmt.Errorf("analyzing code: %w", err)
	}
	report.Analysis = analysis

	a.progress.report("optimize", "[2/3] Getting optimized version...")
	optimized, err := a.optimizedVersion(ctx, code, language)
	if err != nil {
		return nil, fmt.Errorf("getting optimized version: %w", err)
	}
	report.Optimized = optimized

	a.progress.report("alternatives", "[3/3] Collecting alternative approaches...")
	alternatives, err := a.alternativeApproaches(ctx, code, language)
	if err != nil {
		return nil, fmt.Errorf("collecting alternatives: %w", err)
	}
	report.Alternatives = alternatives

	return report, nil
}

func (a *SnippetAnalyzer) analyzeCode(ctx context.Context, code, language string) (CodeAnalysis, error) {
	prompt := fmt.Sprintf(`
You are an expert %[1]s code reviewer.

Analyze the following %[1]s code and respond ONLY with valid JSON
matching this schema:
{
  "description": "short explanation of what the code does",
  "time_complexity": "Big-O time complexity (e.g., O(n^2))",
  "space_complexity": "Big-O space complexity (e.g., O(n))",
  "code_quality_score": 7,
  "issues": ["issue 1", "issue 2"],
  "improvement_suggestions": ["suggestion 1", "suggestion 2"]
}

Code:
`+"```%[1]s\n%[2]s\n```", language, code)

	raw, err := a.client.Complete(ctx,
		"You are an expert software engineer and code reviewer.",
		prompt,
		llm.Options{Temperature: llm.Temp(0.2)},
	)
	if err != nil {
		return CodeAnalysis{}, err
	}

	var analysis CodeAnalysis
	if !llm.CoerceJSON(raw, &analysis) {
		logrus.Warn("Code analysis response was not valid JSON; keeping raw text")
		return CodeAnalysis{Raw: raw}, nil
	}
	analysis.Raw = ""
	return analysis, nil
}

func (a *SnippetAnalyzer) optimizedVersion(ctx context.Context, code, language string) (OptimizedVersion, error) {
	prompt := fmt.Sprintf(`
You are an expert %[1]s performance engineer.

Given the following %[1]s code, return ONLY valid JSON of the form:
{
  "optimized_code": "code block here",
  "explanation": "what you changed and why"
}

Code:
`+"```%[1]s\n%[2]s\n```", language, code)

	raw, err := a.client.Complete(ctx,
		"You are an expert code optimizer focused on clarity and performance.",
		prompt,
		llm.Options{Temperature: llm.Temp(0.3)},
	)
	if err != nil {
		return OptimizedVersion{}, err
	}

	var optimized OptimizedVersion
	if !llm.CoerceJSON(raw, &optimized) {
		logrus.Warn("Optimization response was not valid JSON; keeping raw text")
		return OptimizedVersion{Raw: raw}, nil
	}
	optimized.Raw = ""
	return optimized, nil
}

func (a *SnippetAnalyzer) alternativeApproaches(ctx context.Context, code, language string) (Alternatives, error) {
	prompt := fmt.Sprintf(`
You are an expert algorithms engineer.

Based on the following %[1]s code, infer the underlying problem
and propose 2-3 alternative solution approaches.

Respond ONLY with valid JSON of the form:
{
  "approaches": [
    {
      "name": "Descriptive name",
      "description": "Short explanation of the idea",
      "time_complexity": "Big-O time complexity",
      "when_to_use": "When this approach is preferable"
    }
  ]
}

Code:
`+"```%[1]s\n%[2]s\n```", language, code)

	raw, err := a.client.Complete(ctx,
		"You are an expert problem solver and algorithms instructor.",
		prompt,
		llm.Options{Temperature: llm.Temp(0.5)},
	)
	if err != nil {
		return Alternatives{}, err
	}

	var alternatives Alternatives
	if !llm.CoerceJSON(raw, &alternatives) {
		logrus.Warn("Alternatives response was not valid JSON; keeping raw text")
		return Alternatives{Raw: raw}, nil
	}
	alternatives.Raw = ""
	return alternatives, nil
}
