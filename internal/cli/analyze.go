package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"codoc/internal/analyze"
	"codoc/internal/llm"
	"codoc/internal/render"
	"codoc/internal/store"
)

func analyzeCmd() *cobra.Command {
	var language string
	var formats []string
	var out string
	var noCache bool
	var asJSON bool

	c := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a code snippet: complexity, issues, optimized version, alternatives",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, source, err := readCode(args)
			if err != nil {
				return err
			}
			if language == "" {
				language = analyze.DetectLanguage(source)
			}

			client, err := llm.New(cfg.LLM, cfg.Analysis.MaxPromptLength)
			if err != nil {
				return err
			}

			cache := openCache()
			if cache != nil {
				defer cache.Close()
			}

			progress := func(_, message string) {
				fmt.Fprintln(os.Stderr, message)
			}
			report, err := analyzeSnippet(cmd.Context(), client, cache, code, language, noCache, progress)
			if err != nil {
				return err
			}

			if len(formats) > 0 {
				return writeSnippetOutputs(report, formats, out)
			}
			return printSnippet(os.Stdout, report, asJSON)
		},
	}

	c.Flags().StringVarP(&language, "language", "l", "", "Snippet language (detected from the file name if omitted)")
	c.Flags().StringSliceVarP(&formats, "format", "f", nil, "Output formats: md|html|docx|json (repeatable)")
	c.Flags().StringVarP(&out, "out", "o", "report", "Output path base (extension added per format)")
	c.Flags().BoolVar(&noCache, "no-cache", false, "Skip cache reads (results are still cached)")
	c.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON instead of pretty text")
	return c
}

// analyzeSnippet runs the snippet pipeline, consulting the run cache
// first. A cache hit returns without any model calls; noCache skips
// the read but the fresh result is still stored.
func analyzeSnippet(ctx context.Context, client llm.Client, cache *store.Store, code, language string, noCache bool, progress analyze.Progress) (*analyze.SnippetReport, error) {
	key := store.Key("snippet", cfg.LLM.Provider, cfg.LLM.Model, language+"\x00"+code)

	var report analyze.SnippetReport
	if cacheGet(cache, key, noCache, &report) {
		return &report, nil
	}

	analyzer := analyze.NewSnippetAnalyzer(client, progress)
	res, err := analyzer.Analyze(ctx, code, language)
	if err != nil {
		return nil, err
	}
	cachePut(cache, "snippet", key, res)
	return res, nil
}

// readCode reads the snippet from the argument file, or stdin when no
// argument is given. The returned source name feeds language detection.
func readCode(args []string) (code, source string, err error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading input file: %w", err)
		}
		return string(data), args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	if len(data) == 0 {
		return "", "", fmt.Errorf("no code provided: pass a file or pipe code on stdin")
	}
	return string(data), "", nil
}

func writeSnippetOutputs(rep *analyze.SnippetReport, formats []string, out string) error {
	md := render.BuildSnippetMarkdown(rep)
	base := strings.TrimSuffix(out, ".md")
	for _, f := range formats {
		var path string
		var err error
		switch f {
		case "md":
			path, err = render.WriteMarkdown(base, md)
		case "html":
			path, err = render.WriteHTML(base, "Code Analysis Report", md)
		case "docx":
			path, err = render.WriteSnippetDocx(base, rep)
		case "json":
			path, err = render.WriteJSON(base, rep)
		default:
			return fmt.Errorf("unsupported format %q (expected md|html|docx|json)", f)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

func printSnippet(w io.Writer, rep *analyze.SnippetReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Fprintf(w, "Language:  %s\n", rep.Language)
	fmt.Fprintf(w, "Generated: %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))

	if rep.Analysis.Raw != "" {
		fmt.Fprintln(w, rep.Analysis.Raw)
	} else {
		fmt.Fprintf(w, "%s\n\n", rep.Analysis.Description)
		fmt.Fprintf(w, "Time complexity:  %s\n", rep.Analysis.TimeComplexity)
		fmt.Fprintf(w, "Space complexity: %s\n", rep.Analysis.SpaceComplexity)
		fmt.Fprintf(w, "Quality score:    %d/10\n", rep.Analysis.CodeQualityScore)
		if len(rep.Analysis.Issues) > 0 {
			fmt.Fprintln(w, "\nIssues:")
			for _, issue := range rep.Analysis.Issues {
				fmt.Fprintf(w, "  - %s\n", issue)
			}
		}
		if len(rep.Analysis.ImprovementSuggestions) > 0 {
			fmt.Fprintln(w, "\nSuggestions:")
			for _, s := range rep.Analysis.ImprovementSuggestions {
				fmt.Fprintf(w, "  - %s\n", s)
			}
		}
	}

	if rep.Optimized.OptimizedCode != "" {
		fmt.Fprintf(w, "\nOptimized version:\n\n%s\n", rep.Optimized.OptimizedCode)
		if rep.Optimized.Explanation != "" {
			fmt.Fprintf(w, "\n%s\n", rep.Optimized.Explanation)
		}
	} else if rep.Optimized.Raw != "" {
		fmt.Fprintf(w, "\nOptimized version:\n\n%s\n", rep.Optimized.Raw)
	}

	if len(rep.Alternatives.Approaches) > 0 {
		fmt.Fprintln(w, "\nAlternative approaches:")
		for i, a := range rep.Alternatives.Approaches {
			fmt.Fprintf(w, "  %d. %s: %s\n", i+1, a.Name, a.Description)
		}
	} else if rep.Alternatives.Raw != "" {
		fmt.Fprintf(w, "\nAlternative approaches:\n%s\n", rep.Alternatives.Raw)
	}
	return nil
}
