package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     "test-key",
		model:      "test-model",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header: %q", got)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("Unexpected model: %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "hello" {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  world \n"}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	answer, err := client.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if answer != "world" {
		t.Errorf("Expected trimmed answer 'world', got %q", answer)
	}
}

func TestComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("Expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Expected response body in error, got: %v", err)
	}
}

func TestComplete_NotConfigured(t *testing.T) {
	client := &Client{httpClient: http.DefaultClient}

	if client.Enabled() {
		t.Error("Client without api key must report disabled")
	}
	if _, err := client.Complete(context.Background(), "hello"); err == nil {
		t.Error("Expected error from unconfigured client")
	}
}

func TestSummarize_BuildsPrompt(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		prompt = req.Messages[0].Content

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "summary"}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if _, err := client.Summarize(context.Background(), "Big launch", "Details", "startup founders"); err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if !strings.Contains(prompt, "startup founders") || !strings.Contains(prompt, "Big launch") {
		t.Errorf("Prompt missing expected pieces: %q", prompt)
	}
}
