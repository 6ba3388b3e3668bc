// Package llm provides the language-model client used for code analysis.
//
// Two providers are supported: Groq's hosted chat completions API and a
// local Ollama instance. Both implement the Client interface.
package llm

import (
	"context"
	"fmt"

	"codoc/internal/config"
)

// Options tunes a single completion call. Unset values fall back to the
// configured defaults. Temperature is a pointer so that 0, which asks
// for deterministic sampling, stays distinguishable from unset.
type Options struct {
	Temperature *float64
	MaxTokens   int
}

// Temp wraps a literal temperature for Options.
func Temp(v float64) *float64 { return &v }

// Client defines the interface for LLM clients.
type Client interface {
	// Complete sends a system message and user prompt to the model and
	// returns the raw text of the completion.
	Complete(ctx context.Context, system, prompt string, opts Options) (string, error)
}

// New builds the configured provider client. maxPromptLen caps the user
// prompt size; longer prompts are truncated with a warning.
func New(cfg config.LLMConfig, maxPromptLen int) (Client, error) {
	switch cfg.Provider {
	case "groq":
		return NewGroqClient(cfg, maxPromptLen)
	case "ollama":
		return NewOllamaClient(cfg, maxPromptLen)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
