package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"codoc/internal/githubapi"
	"codoc/internal/llm"
	"codoc/internal/scan"
)

// readmeExcerptLimit caps how much of an existing README feeds the prompts.
const readmeExcerptLimit = 4000

// RepoAnalyzer generates README sections for a repository.
type RepoAnalyzer struct {
	client   llm.Client
	progress Progress
}

// NewRepoAnalyzer creates a RepoAnalyzer. progress may be nil.
func NewRepoAnalyzer(client llm.Client, progress Progress) *RepoAnalyzer {
	return &RepoAnalyzer{client: client, progress: progress}
}

// BuildRemoteContext assembles the analysis context for a GitHub URL.
func (a *RepoAnalyzer) BuildRemoteContext(ctx context.Context, gh *githubapi.Client, repoURL string) (*RepoContext, error) {
	owner, repo, err := githubapi.ParseURL(repoURL)
	if err != nil {
		return nil, err
	}

	a.progress.report("fetch", fmt.Sprintf("Fetching metadata for %s/%s...", owner, repo))
	info, err := gh.GetRepoInfo(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetching repo info: %w", err)
	}

	importantFiles, err := gh.GetImportantFiles(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("listing important files: %w", err)
	}

	var readme string
	for _, item := range importantFiles {
		filename := strings.ToLower(filepath.Base(item.Path))
		if strings.HasPrefix(filename, "readme") && item.DownloadURL != "" {
			content, err := gh.GetFileContent(ctx, item.DownloadURL)
			if err != nil {
				logrus.Warnf("Could not download README %s: %v", item.Path, err)
				break
			}
			readme = content
			break
		}
	}
	if len(readme) > readmeExcerptLimit {
		readme = readme[:readmeExcerptLimit]
	}

	return &RepoContext{
		RepoInfo:       info,
		ImportantFiles: importantFiles,
		ReadmeExcerpt:  readme,
	}, nil
}

// BuildLocalContext assembles the analysis context for a local project.
func (a *RepoAnalyzer) BuildLocalContext(projectPath string, explorer *scan.Explorer, resolver *scan.Resolver, maxFileSize int64) (*RepoContext, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolving project path: %w", err)
	}

	a.progress.report("scan", "Scanning project structure...")
	structure, err := explorer.DirectoryStructure(absPath)
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	resolver.Discover()

	var readme string
	if resolved, err := resolver.Resolve("README.md"); err == nil {
		content, err := scan.ReadFileContent(filepath.Join(absPath, resolved), maxFileSize)
		if err != nil {
			logrus.Warnf("Could not read %s: %v", resolved, err)
		} else {
			readme = content
		}
	}
	if len(readme) > readmeExcerptLimit {
		readme = readme[:readmeExcerptLimit]
	}

	deps := resolver.DependencyFiles()
	var importantFiles []githubapi.ImportantFile
	for _, path := range resolver.AvailableFiles() {
		importantFiles = append(importantFiles, githubapi.ImportantFile{Path: path})
	}

	return &RepoContext{
		RepoInfo: githubapi.RepoInfo{
			Name:     filepath.Base(absPath),
			Language: guessLanguageFromDeps(deps),
		},
		ImportantFiles: importantFiles,
		ReadmeExcerpt:  readme,
		Structure:      structure,
	}, nil
}

// sectionSpec pairs a section with its concise/detailed instructions.
type sectionSpec struct {
	title    string
	step     string
	concise  string
	detailed string
	assign   func(*RepoSections, string)
}

var sectionSpecs = []sectionSpec{
	{
		title: "Project Overview and Features",
		step:  "overview",
		concise: "Provide a clear, high-level description of what this project does and " +
			"its main features. Keep this concise (150 words max). Use 3-5 bullet points " +
			"or short paragraphs that a developer can quickly scan to decide whether " +
			"to use or contribute to this repository.",
		detailed: "Provide a clear, high-level description of what this project does and its main " +
			"features. Include useful background, motivations, and any notable design choices. " +
			"Write in 3-6 short paragraphs suitable for a project's README.",
		assign: func(s *RepoSections, v string) { s.Overview = v },
	},
	{
		title: "Tech Stack",
		step:  "tech_stack",
		concise: "Identify the main technologies, languages, frameworks, and tools used " +
			"in this repository. Present them as a short, categorized bullet list (backend, " +
			"frontend, database, tooling). Limit to the top 6-10 items overall.",
		detailed: "Identify the main technologies, languages, frameworks, and tools used in this " +
			"repository. Provide a categorized list (backend, frontend, database, tooling) with " +
			"brief notes about where they are used in the project.",
		assign: func(s *RepoSections, v string) { s.TechStack = v },
	},
	{
		title: "Installation",
		step:  "installation",
		concise: "Provide concise installation steps that a developer can copy-paste. Use a small " +
			"numbered list (3-6 steps) with commands and any obvious prerequisites. If you must " +
			"assume environment details, mark them as assumptions and keep the guidance short.",
		detailed: "Create a step-by-step installation and setup guide including prerequisites, commands, " +
			"environment variables, and common troubleshooting tips. Use numbered steps and include " +
			"examples where helpful.",
		assign: func(s *RepoSections, v string) { s.Installation = v },
	},
	{
		title: "Usage",
		step:  "usage",
		concise: "Give 1-3 short, concrete usage examples (commands, code snippets, or API calls). " +
			"Keep examples minimal and directly runnable; avoid long tutorials. Limit the whole " +
			"section to ~200 words.",
		detailed: "Provide usage instructions with multiple examples and brief explanations. Include commands, " +
			"code snippets, or API calls as appropriate and show expected outputs where helpful.",
		assign: func(s *RepoSections, v string) { s.Usage = v },
	},
	{
		title: "Contributing",
		step:  "contributing",
		concise: "Provide a short contributing summary (4-6 bullet points): how to file issues, " +
			"create PRs, coding style expectations, and where to find further guidelines. If " +
			"the repo already contains CONTRIBUTING.md, condense it to a 3-line summary.",
		detailed: "Summarize how someone should contribute to this project, including filing issues, creating PRs, " +
			"code style, testing, and the review process. Include links to relevant files if present.",
		assign: func(s *RepoSections, v string) { s.Contributing = v },
	},
}

// GenerateSections runs the five sequential section calls and returns
// the assembled RepoReport.
func (a *RepoAnalyzer) GenerateSections(ctx context.Context, rc *RepoContext, verbosity Verbosity) (*RepoReport, error) {
	contextBytes, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding repo context: %w", err)
	}
	contextStr := string(contextBytes)

	report := &RepoReport{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		RepoInfo:    rc.RepoInfo,
	}

	for i, spec := range sectionSpecs {
		a.progress.report(spec.step, fmt.Sprintf("[%d/%d] Generating %s...", i+1, len(sectionSpecs), spec.title))

		instruction := spec.concise
		if verbosity == VerbosityDetailed {
			instruction = spec.detailed
		}

		section, err := a.generateSection(ctx, spec.title, instruction, contextStr)
		if err != nil {
			return nil, fmt.Errorf("generating %s section: %w", spec.step, err)
		}
		spec.assign(&report.Sections, strings.TrimSpace(section))
	}

	return report, nil
}

func (a *RepoAnalyzer) generateSection(ctx context.Context, title, instruction, repoContext string) (string, error) {
	prompt := fmt.Sprintf(`
You are helping to document an open-source project.

SECTION: %s

INSTRUCTION:
%s

CONTEXT (repo info and important files):
%s

Write the answer in concise, well-structured Markdown.
`, title, instruction, repoContext)

	return a.client.Complete(ctx,
		"You are an expert technical writer and software engineer.",
		prompt,
		llm.Options{Temperature: llm.Temp(0.3), MaxTokens: 1500},
	)
}
