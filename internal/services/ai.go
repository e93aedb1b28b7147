package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response kinds the AI endpoint may return. Anything else is rejected at
// the boundary instead of falling through to a generic string.
const (
	AIKindBlogSuggestion = "blog_suggestion"
	AIKindThreatReport   = "threat_report"
	AIKindPlainText      = "plain_text"
)

// AIResponse is the tagged envelope for every generative-AI reply.
type AIResponse struct {
	Kind string `json:"kind"`

	// blog_suggestion
	Title   string `json:"title,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`

	// threat_report
	Summary  string   `json:"summary,omitempty"`
	Findings []string `json:"findings,omitempty"`

	// plain_text
	Text string `json:"text,omitempty"`
}

var ErrAIUnavailable = errors.New("AI service not configured")

// ValidateAIResponse checks the envelope's discriminator and the fields that
// kind requires. Pure.
func ValidateAIResponse(resp *AIResponse) error {
	switch resp.Kind {
	case AIKindBlogSuggestion:
		if resp.Title == "" {
			return errors.New("blog_suggestion response missing title")
		}
	case AIKindThreatReport:
		if resp.Summary == "" {
			return errors.New("threat_report response missing summary")
		}
	case AIKindPlainText:
		if resp.Text == "" {
			return errors.New("plain_text response missing text")
		}
	default:
		return fmt.Errorf("unexpected AI response kind %q", resp.Kind)
	}
	return nil
}

// ParseAIResponse decodes and validates a raw AI reply.
func ParseAIResponse(data []byte) (*AIResponse, error) {
	var resp AIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("malformed AI response: %w", err)
	}
	if err := ValidateAIResponse(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AIClient calls the external generative-AI endpoint. Text in, tagged JSON out.
type AIClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewAIClient(endpoint, apiKey string) *AIClient {
	return &AIClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type aiRequest struct {
	Prompt string `json:"prompt"`
}

func (c *AIClient) generate(ctx context.Context, prompt string) (*AIResponse, error) {
	if c == nil || c.endpoint == "" {
		return nil, ErrAIUnavailable
	}

	body, err := json.Marshal(aiRequest{Prompt: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI endpoint returned %d", resp.StatusCode)
	}

	return ParseAIResponse(data)
}

// SuggestBlogMeta asks for a title/excerpt suggestion for a draft body.
func (c *AIClient) SuggestBlogMeta(ctx context.Context, content string) (*AIResponse, error) {
	prompt := "Suggest a title and a one-paragraph excerpt in Thai for the following blog draft. " +
		`Answer only with JSON: {"kind":"blog_suggestion","title":"...","excerpt":"..."}` + "\n\n" + content

	resp, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if resp.Kind != AIKindBlogSuggestion {
		return nil, fmt.Errorf("expected blog_suggestion, got %q", resp.Kind)
	}
	return resp, nil
}

// Analyze runs a natural-language admin command against the site statistics
// (the "Orion" command center). Replies are either a threat_report or
// plain_text; both kinds are passed through to the admin UI.
func (c *AIClient) Analyze(ctx context.Context, command string, statsJSON []byte) (*AIResponse, error) {
	prompt := "You are Orion, the admin command center of a Thai job marketplace. " +
		`Answer only with JSON, either {"kind":"threat_report","summary":"...","findings":["..."]} or {"kind":"plain_text","text":"..."}.` +
		"\nSite statistics: " + string(statsJSON) +
		"\nAdmin command: " + command

	resp, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if resp.Kind == AIKindBlogSuggestion {
		return nil, fmt.Errorf("unexpected AI response kind %q", resp.Kind)
	}
	return resp, nil
}
