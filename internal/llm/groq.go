package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"codoc/internal/config"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient talks to Groq's OpenAI-compatible chat completions API.
type GroqClient struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	model        string
	maxTokens    int
	temperature  float64
	maxPromptLen int
}

// NewGroqClient creates a Groq client. The API key is taken from the
// GROQ_API_KEY environment variable and is required.
func NewGroqClient(cfg config.LLMConfig, maxPromptLen int) (*GroqClient, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is not set; add it to your environment or .env file")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	logrus.Infof("Using Groq client with model: %s", cfg.Model)

	return &GroqClient{
		httpClient:   newHTTPClient(timeout),
		baseURL:      baseURL,
		apiKey:       apiKey,
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		maxPromptLen: maxPromptLen,
	}, nil
}

// newHTTPClient builds an http.Client with explicit transport timeouts.
func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends a chat completion request and returns the first choice.
func (c *GroqClient) Complete(ctx context.Context, system, prompt string, opts Options) (string, error) {
	if len(prompt) > c.maxPromptLen {
		logrus.Warnf("Prompt is being truncated from %d to %d characters.", len(prompt), c.maxPromptLen)
		prompt = prompt[:c.maxPromptLen]
	}

	temperature := c.temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("network error while calling Groq API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("reading Groq response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", fmt.Errorf("unauthorized: check that your GROQ_API_KEY is valid")
	case http.StatusForbidden, http.StatusTooManyRequests:
		return "", fmt.Errorf("forbidden or rate-limited by Groq (status %d)", resp.StatusCode)
	case http.StatusNotFound:
		return "", fmt.Errorf("Groq resource not found; check the configured model %q", c.model)
	default:
		return "", fmt.Errorf("Groq API error (%d): %s", resp.StatusCode, truncateForError(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unexpected response format from Groq API: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("Groq API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("Groq response contained no choices")
	}

	logrus.Debug("Response received from Groq.")
	return parsed.Choices[0].Message.Content, nil
}

func truncateForError(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
