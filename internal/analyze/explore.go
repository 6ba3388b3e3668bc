package analyze

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"codoc/internal/llm"
	"codoc/internal/scan"
)

// DeepExplorer iteratively explores a local project before section
// generation: the model plans READ_FILE / ANALYZE / FINISH steps, the
// explorer executes them, and everything lands in the knowledge base.
type DeepExplorer struct {
	client        llm.Client
	kb            *KnowledgeBase
	resolver      *scan.Resolver
	maxIterations int
	maxPromptLen  int
	maxFileSize   int64
	progress      Progress
}

// NewDeepExplorer wires a DeepExplorer over an already-built knowledge base.
func NewDeepExplorer(client llm.Client, kb *KnowledgeBase, resolver *scan.Resolver, maxIterations, maxPromptLen int, maxFileSize int64, progress Progress) *DeepExplorer {
	return &DeepExplorer{
		client:        client,
		kb:            kb,
		resolver:      resolver,
		maxIterations: maxIterations,
		maxPromptLen:  maxPromptLen,
		maxFileSize:   maxFileSize,
		progress:      progress,
	}
}

// Run executes the exploration loop. Errors inside an iteration are
// recorded as notes and do not abort the loop; partial knowledge is
// still useful for documentation.
func (d *DeepExplorer) Run(ctx context.Context, goal string) error {
	if err := d.identifyProjectType(ctx); err != nil {
		d.kb.AddNote(fmt.Sprintf("Error identifying project type: %v", err))
	}

	for i := 0; i < d.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.progress.report("iteration", fmt.Sprintf("Exploration iteration %d/%d...", i+1, d.maxIterations))

		plan, err := d.planNextSteps(ctx, goal)
		if err != nil {
			d.kb.AddNote(fmt.Sprintf("Planning error in iteration %d: %v", i+1, err))
			continue
		}

		if len(plan) == 0 || (len(plan) == 1 && plan[0] == "FINISH") {
			logrus.Info("Empty or 'FINISH' plan received, ending exploration.")
			break
		}

		d.executePlan(ctx, goal, plan)
	}
	return nil
}

func (d *DeepExplorer) identifyProjectType(ctx context.Context) error {
	prompt := fmt.Sprintf(`
Initial project context for %s:
Project Structure (partial): %v
---
Based on the structure, what is the type of this project (e.g., Go Backend, React Frontend)?
Be brief (1 sentence).`, filepath.Base(d.kb.ProjectPath), d.kb.Structure)

	projectType, err := d.client.Complete(ctx, "You are a software architecture expert.", prompt, llm.Options{})
	if err != nil {
		return err
	}
	d.kb.SetProjectType(strings.TrimSpace(projectType))
	d.resolver.SetProjectHint(d.kb.ProjectType)
	d.kb.AddHistory(fmt.Sprintf("Estimated project type: %s", d.kb.ProjectType))
	return nil
}

func (d *DeepExplorer) planNextSteps(ctx context.Context, goal string) ([]string, error) {
	contextSummary := d.kb.ContextSummary(goal, d.maxPromptLen)
	prompt := fmt.Sprintf(`
Objective: %s
Current Context:
%s
---
Propose the next 3-5 logical steps. Use actions: READ_FILE <path>, ANALYZE <subject>, FINISH.
MANDATORY output format: Simple numbered list.
Example:
1. READ_FILE main.go
2. ANALYZE the application entry point
`, goal, contextSummary)

	rawPlan, err := d.client.Complete(ctx,
		"You are a code exploration planner. Respond ONLY with the numbered list of actions.",
		prompt,
		llm.Options{},
	)
	if err != nil {
		return nil, err
	}
	return parsePlan(rawPlan), nil
}

var planActionRegex = regexp.MustCompile(`^\s*\d+\.\s*(READ_FILE|ANALYZE|FINISH)\s*(.*)$`)

// parsePlan extracts actions from a numbered-list plan. Lines after a
// FINISH are dropped.
func parsePlan(planStr string) []string {
	plan := make([]string, 0)
	for _, line := range strings.Split(planStr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		matches := planActionRegex.FindStringSubmatch(line)
		if len(matches) < 2 {
			continue
		}
		action := strings.TrimSpace(matches[1])
		if action == "FINISH" {
			plan = append(plan, "FINISH")
			break
		}
		if len(matches) > 2 {
			args := strings.TrimSpace(matches[2])
			if args != "" {
				plan = append(plan, fmt.Sprintf("%s %s", action, args))
			}
		}
	}
	return plan
}

func (d *DeepExplorer) executePlan(ctx context.Context, goal string, plan []string) {
	for _, step := range plan {
		if ctx.Err() != nil {
			return
		}
		logrus.Infof("Executing step: %s", step)
		d.progress.report("execute", "Executing: "+step)

		parts := strings.SplitN(step, " ", 2)
		action := parts[0]
		args := ""
		if len(parts) > 1 {
			args = parts[1]
		}

		switch action {
		case "READ_FILE":
			d.executeReadFile(args)
		case "ANALYZE":
			d.executeAnalyze(ctx, goal, args)
		}
	}
}

func (d *DeepExplorer) executeReadFile(filePath string) {
	resolved, err := d.resolver.Resolve(filePath)
	if err != nil {
		d.kb.AddNote(fmt.Sprintf("Failed to resolve '%s': %v", filePath, err))
		return
	}

	fullPath := filepath.Join(d.kb.ProjectPath, resolved)
	content, err := scan.ReadFileContent(fullPath, d.maxFileSize)
	if err != nil {
		d.kb.AddNote(fmt.Sprintf("Failed to read '%s': %v", resolved, err))
		return
	}
	d.kb.AddFileContent(fullPath, content)
	d.kb.AddHistory(fmt.Sprintf("Read file %s", resolved))
}

func (d *DeepExplorer) executeAnalyze(ctx context.Context, goal, subject string) {
	prompt := fmt.Sprintf(`
Context: %s
---
Analyze the following question: %q`, d.kb.ContextSummary(goal, d.maxPromptLen), subject)

	result, err := d.client.Complete(ctx, "You are a code analysis assistant.", prompt, llm.Options{})
	if err != nil {
		d.kb.AddNote(fmt.Sprintf("Failed to analyze '%s': %v", subject, err))
		return
	}
	d.kb.AddNote(fmt.Sprintf("Analysis of '%s': %s", subject, result))
	d.kb.AddHistory(fmt.Sprintf("Analyzed %s", subject))
}
