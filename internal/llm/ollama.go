package llm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	ollama "github.com/JexSrs/go-ollama"
	"github.com/sirupsen/logrus"

	"codoc/internal/config"
)

const defaultOllamaHost = "http://localhost:11434"

// OllamaClient runs completions against a local Ollama instance.
type OllamaClient struct {
	client       *ollama.Ollama
	model        string
	maxPromptLen int
}

// NewOllamaClient creates a new client for Ollama.
func NewOllamaClient(cfg config.LLMConfig, maxPromptLen int) (*OllamaClient, error) {
	host := cfg.BaseURL
	if host == "" {
		host = defaultOllamaHost
	}

	ollamaURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	client := ollama.New(*ollamaURL)

	logrus.Infof("Using Ollama client for host: %s", host)
	logrus.Infof("Using Ollama model: %s", cfg.Model)

	return &OllamaClient{
		client:       client,
		model:        cfg.Model,
		maxPromptLen: maxPromptLen,
	}, nil
}

// Complete sends a request to Ollama using the Generate endpoint.
func (c *OllamaClient) Complete(ctx context.Context, system, prompt string, opts Options) (string, error) {
	logrus.Debugf("Sending prompt of %d characters to Ollama (max: %d)", len(prompt), c.maxPromptLen)

	if len(prompt) > c.maxPromptLen {
		logrus.Warnf("Prompt is being truncated from %d to %d characters.", len(prompt), c.maxPromptLen)
		prompt = prompt[:c.maxPromptLen]
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := c.client.Generate(
		c.client.Generate.WithModel(c.model),
		c.client.Generate.WithSystem(system),
		c.client.Generate.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("error calling Ollama Generate API: %w", err)
	}

	if res.Done {
		if res.Response != "" {
			logrus.Debug("Response received from Ollama.")
			// Strip the "```" fences the model sometimes wraps around output.
			return strings.TrimSpace(strings.Trim(res.Response, "```")), nil
		}
		return "", fmt.Errorf("Ollama response empty but marked as done")
	}

	return "", fmt.Errorf("Ollama request did not finish (unexpected streaming behavior)")
}
