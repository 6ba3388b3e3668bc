package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"codoc/internal/analyze"
	"codoc/internal/config"
	"codoc/internal/githubapi"
	"codoc/internal/llm"
	"codoc/internal/render"
	"codoc/internal/scan"
	"codoc/internal/store"
)

func readmeCmd() *cobra.Command {
	var repoURL string
	var projectPath string
	var verbosity string
	var deep bool
	var formats []string
	var out string
	var noCache bool

	c := &cobra.Command{
		Use:   "readme",
		Short: "Generate a README for a GitHub repository or a local project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (repoURL == "") == (projectPath == "") {
				return fmt.Errorf("exactly one of --url or --path is required")
			}

			// A .codoc.yaml in the project directory supplies defaults;
			// explicit flags win.
			opts := readmeOptions{out: out, formats: formats, verbosity: verbosity}
			if projectPath != "" {
				manifest, err := config.LoadManifest(projectPath)
				if err != nil {
					return err
				}
				applyManifest(&opts, manifest,
					cmd.Flags().Changed("out"),
					cmd.Flags().Changed("format"),
					cmd.Flags().Changed("verbosity"))
			}
			if len(opts.formats) == 0 {
				opts.formats = []string{"md"}
			}

			client, err := llm.New(cfg.LLM, cfg.Analysis.MaxPromptLength)
			if err != nil {
				return err
			}

			cache := openCache()
			if cache != nil {
				defer cache.Close()
			}

			target := repoURL
			if target == "" {
				abs, err := filepath.Abs(projectPath)
				if err != nil {
					return err
				}
				target = abs
			}
			key := store.Key("readme", cfg.LLM.Provider, cfg.LLM.Model,
				fmt.Sprintf("%s\x00%s\x00deep=%t", target, opts.verbosity, deep))

			var report analyze.RepoReport
			if !cacheGet(cache, key, noCache, &report) {
				res, err := generateReport(cmd, client, repoURL, projectPath, opts.verbosity, deep, opts.ignore)
				if err != nil {
					return err
				}
				report = *res
				cachePut(cache, "readme", key, &report)
			}

			return writeReadmeOutputs(&report, opts.formats, opts.out)
		},
	}

	c.Flags().StringVarP(&repoURL, "url", "u", "", "GitHub repository URL")
	c.Flags().StringVarP(&projectPath, "path", "p", "", "Local project directory")
	c.Flags().StringVar(&verbosity, "verbosity", "concise", "Section verbosity: concise|detailed")
	c.Flags().BoolVar(&deep, "deep", false, "Explore the project iteratively before writing (local paths only)")
	c.Flags().StringSliceVarP(&formats, "format", "f", nil, "Output formats: md|html (repeatable, default md)")
	c.Flags().StringVarP(&out, "out", "o", "README.md", "Output path")
	c.Flags().BoolVar(&noCache, "no-cache", false, "Skip cache reads (results are still cached)")
	return c
}

// readmeOptions holds the output settings after flags and the project
// manifest have been merged.
type readmeOptions struct {
	out       string
	formats   []string
	verbosity string
	ignore    []string
}

// applyManifest fills in values the user left at their defaults.
// Manifest.Output names a directory, so the README artifact base is
// joined under it rather than used as a file path.
func applyManifest(opts *readmeOptions, m *config.Manifest, outSet, formatsSet, verbositySet bool) {
	if m == nil {
		return
	}
	if !outSet && m.Output != "" {
		opts.out = filepath.Join(m.Output, "README")
	}
	if !formatsSet && len(m.Formats) > 0 {
		opts.formats = m.Formats
	}
	if !verbositySet && m.Verbosity != "" {
		opts.verbosity = m.Verbosity
	}
	opts.ignore = m.Ignore
}

func generateReport(cmd *cobra.Command, client llm.Client, repoURL, projectPath, verbosity string, deep bool, extraIgnore []string) (*analyze.RepoReport, error) {
	progress := func(_, message string) {
		fmt.Fprintln(cmd.ErrOrStderr(), message)
	}
	analyzer := analyze.NewRepoAnalyzer(client, progress)

	var rc *analyze.RepoContext
	if repoURL != "" {
		gh, err := githubapi.NewClient(cfg.GitHub.BaseURL, "")
		if err != nil {
			return nil, err
		}
		rc, err = analyzer.BuildRemoteContext(cmd.Context(), gh, repoURL)
		if err != nil {
			return nil, err
		}
	} else {
		explorer := scan.NewExplorer(cfg.Explorer, cfg.Analysis.MaxDirectoryDepth, extraIgnore...)
		resolver := scan.NewResolver(projectPath, cfg.Analysis.MaxFileRetryAttempts)
		var err error
		rc, err = analyzer.BuildLocalContext(projectPath, explorer, resolver, cfg.Analysis.MaxFileReadSize)
		if err != nil {
			return nil, err
		}

		if deep {
			kb := analyze.NewKnowledgeBase(projectPath)
			kb.Structure = rc.Structure
			explorerLoop := analyze.NewDeepExplorer(client, kb, resolver,
				cfg.Analysis.MaxExplorationIterations, cfg.Analysis.MaxPromptLength,
				cfg.Analysis.MaxFileReadSize, progress)
			if err := explorerLoop.Run(cmd.Context(), "Understand the project well enough to write its README"); err != nil {
				return nil, err
			}
			rc.ExplorationNotes = kb.Notes()
		}
	}

	return analyzer.GenerateSections(cmd.Context(), rc, analyze.ParseVerbosity(verbosity))
}

func writeReadmeOutputs(rep *analyze.RepoReport, formats []string, out string) error {
	md := render.BuildRepoMarkdown(rep)
	base := strings.TrimSuffix(out, ".md")
	for _, f := range formats {
		var path string
		var err error
		switch f {
		case "md":
			path, err = render.WriteMarkdown(base, md)
		case "html":
			path, err = render.WriteHTML(base, rep.RepoInfo.Name, md)
		default:
			return fmt.Errorf("unsupported format %q (expected md|html)", f)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}
