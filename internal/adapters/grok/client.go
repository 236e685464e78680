// Package grok talks to the x.ai chat-completions API to suggest daily
// task templates for a goal. The client is strictly best-effort: callers
// substitute the deterministic fallback list on any error, so nothing in
// here is allowed to surface to an end user.
package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goaltracker/core/internal/infrastructure/config"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

const systemPrompt = "You are a goal achievement assistant. Generate 5 specific, actionable DAILY tasks " +
	"(3 positive, 2 negative) for the given goal. These tasks should be things someone can do every day " +
	"to work towards their goal. Return only a JSON array with objects containing: description, type " +
	"(positive/negative), and points (10-50 for positive, -10 to -30 for negative). Make tasks daily " +
	"habits, not one-time actions."

// Client calls the chat-completions endpoint with a per-user API key.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient builds a suggester from deployment configuration.
func NewClient(cfg config.GrokConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages  []chatMessage `json:"messages"`
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Suggest asks the model for task templates. Any failure, including a
// missing key or unparseable model output, is returned as an error for
// the caller to absorb.
func (c *Client) Suggest(ctx context.Context, apiKey, goalTitle, goalDescription string) ([]ports.Suggestion, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no api key configured")
	}

	payload := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(
				"Goal: %s\nDescription: %s\n\nGenerate daily recurring tasks that will help achieve this goal. These should be daily habits or actions.",
				goalTitle, goalDescription)},
		},
		Model:     c.model,
		MaxTokens: 500,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call completions api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completions api returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("empty completion")
	}

	suggestions, err := parseSuggestions(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

// parseSuggestions extracts the JSON array from the model output. Models
// sometimes wrap the array in code fences or prose, so the parse is
// anchored on the outermost brackets.
func parseSuggestions(content string) ([]ports.Suggestion, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in completion")
	}

	var suggestions []ports.Suggestion
	if err := json.Unmarshal([]byte(content[start:end+1]), &suggestions); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	valid := suggestions[:0]
	for _, s := range suggestions {
		if s.Description == "" || !s.Type.IsValid() {
			continue
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no usable suggestions in completion")
	}
	return valid, nil
}
