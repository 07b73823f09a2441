package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"techdigest/app/cfg"
)

// Client talks to an OpenAI-compatible chat completions endpoint. Summaries
// and chat answers are opaque enrichment text; nothing in the pipeline
// requires the client to be configured.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient() *Client {
	appCfg := cfg.Get()

	return &Client{
		endpoint: appCfg.LLMEndpoint,
		apiKey:   appCfg.LLMAPIKey,
		model:    appCfg.LLMModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Summarize produces a short reader-facing summary of one article. The
// audience string tailors the tone, e.g. "startup founders".
func (c *Client) Summarize(ctx context.Context, title, summary, audience string) (string, error) {
	if audience == "" {
		audience = "tech enthusiasts"
	}

	prompt := fmt.Sprintf(
		"Summarize this tech news article in 2-3 sentences for %s:\n\nTitle: %s\n\n%s",
		audience, title, summary)

	return c.Complete(ctx, prompt)
}

// Complete sends a single-message chat completion request and returns the
// first choice's content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("llm client not configured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build llm request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode llm response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("llm response contained no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
