// Package llm is the client for the optional external model collaborator,
// speaking the OpenAI-compatible chat-completions protocol.
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

	"github.com/ognjenm/news-pulse/internal/domain"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 10 * time.Second

	analyzePrompt = "You are a helpful assistant that extracts structured information from user news queries.\n" +
		"Return a JSON object with fields: intent (one of category, source, score, search, nearby)," +
		" entities (array), locations (array), and keywords (array of important search terms)." +
		" Consider proximity hints like 'near me' as the nearby intent.\nQuery: %s\n"

	summarizePrompt = "Provide a 1-2 sentence concise summary of the following news article." +
		" Focus on the key facts.\nTitle: %s. Description: %s"
)

// Summarizer produces a short article summary.
type Summarizer interface {
	Summarize(ctx context.Context, title, description string) (string, error)
}

// Config holds the connection settings for the model endpoint.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Configured reports whether the external model path can be used at all.
func (c Config) Configured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

// Client calls an OpenAI-compatible chat-completions API. Callers must treat
// every returned error as a cue to fall back to the local implementations.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	hc       *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		hc:       &http.Client{Timeout: cfg.Timeout},
	}
}

// AnalyzeQuery asks the model to classify a query and parses its JSON reply.
// A missing or unrecognized intent field defaults to search; a malformed
// payload is an error so the caller can use the heuristic parser instead.
func (c *Client) AnalyzeQuery(ctx context.Context, query string) (domain.ParsedIntent, error) {
	content, err := c.complete(ctx, fmt.Sprintf(analyzePrompt, query))
	if err != nil {
		return domain.ParsedIntent{}, err
	}

	var reply struct {
		Intent    string   `json:"intent"`
		Entities  []string `json:"entities"`
		Locations []string `json:"locations"`
		Keywords  []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return domain.ParsedIntent{}, fmt.Errorf("malformed model reply: %w", err)
	}

	parsed := domain.ParsedIntent{
		Intent:    domain.ParseIntent(reply.Intent),
		Entities:  reply.Entities,
		Locations: reply.Locations,
		Keywords:  reply.Keywords,
	}
	if parsed.Entities == nil {
		parsed.Entities = []string{}
	}
	if parsed.Locations == nil {
		parsed.Locations = []string{}
	}
	if parsed.Keywords == nil {
		parsed.Keywords = []string{}
	}
	return parsed, nil
}

// Summarize asks the model for a 1-2 sentence article summary.
func (c *Client) Summarize(ctx context.Context, title, description string) (string, error) {
	content, err := c.complete(ctx, fmt.Sprintf(summarizePrompt, title, description))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("model error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion has no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
