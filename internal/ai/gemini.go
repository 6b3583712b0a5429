// Package ai wraps the Gemini generateContent API for the three structured
// analyses the app requests: per-entry journal analysis, cross-entry trend
// analysis, and result-driven suggestions. Responses are forced to JSON via
// response_mime_type and unmarshaled into typed results.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("ai: no API key configured")

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether calls will be attempted at all.
func (c *Client) Enabled() bool { return c.apiKey != "" }

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	Temperature      float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate sends one prompt and unmarshals the JSON reply into out.
func (c *Client) generate(ctx context.Context, prompt string, out any) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.4,
		},
	})
	if err != nil {
		return fmt.Errorf("ai: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ai: call model: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ai: model returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return fmt.Errorf("ai: decode envelope: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return errors.New("ai: empty response")
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(stripFences(text)), out); err != nil {
		return fmt.Errorf("ai: decode payload: %w", err)
	}
	return nil
}

// stripFences removes a markdown code fence the model sometimes wraps
// JSON in even when a JSON MIME type was requested.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// AnalyzeEntry reads one journal entry.
func (c *Client) AnalyzeEntry(ctx context.Context, entryContent string, mood int) (JournalAnalysis, error) {
	prompt := fmt.Sprintf(`You are a compassionate digital wellness coach analyzing a journal entry about screen time and scrolling habits.

Journal entry:
%q

Self-reported mood (1=very low, 5=very good): %d

Respond with a JSON object with exactly these fields:
{"sentiment": "positive|neutral|negative|mixed", "emotions": [strings], "triggers": [strings], "patterns": [strings], "insights": [strings], "recommendations": [strings], "summary": string}

Be specific and supportive. Keep each list to at most 4 items and the summary under 60 words.`, entryContent, mood)

	var out JournalAnalysis
	if err := c.generate(ctx, prompt, &out); err != nil {
		return JournalAnalysis{}, err
	}
	return out, nil
}

// EntryDigest is the condensed form of an entry fed to trend analysis.
type EntryDigest struct {
	Date      string `json:"date"`
	Mood      int    `json:"mood"`
	Sentiment string `json:"sentiment"`
	Summary   string `json:"summary"`
}

// AnalyzeTrends reads a window of recent entry digests.
func (c *Client) AnalyzeTrends(ctx context.Context, entries []EntryDigest) (TrendAnalysis, error) {
	digests, err := json.Marshal(entries)
	if err != nil {
		return TrendAnalysis{}, fmt.Errorf("ai: marshal digests: %w", err)
	}
	prompt := fmt.Sprintf(`You are a digital wellness coach reviewing a user's recent journal history about screen time habits.

Recent entries (oldest first):
%s

Respond with a JSON object with exactly these fields:
{"overall_trend": "improving|stable|declining", "sentiment_trend": string, "common_triggers": [strings], "emotional_patterns": [strings], "progress_insights": [strings], "weekly_focus": string}

Ground every observation in the entries provided.`, digests)

	var out TrendAnalysis
	if err := c.generate(ctx, prompt, &out); err != nil {
		return TrendAnalysis{}, err
	}
	return out, nil
}

// SuggestionsInput carries the scored-result fields suggestions are built from.
type SuggestionsInput struct {
	OverallScore    float64  `json:"overall_score"`
	RiskLevel       string   `json:"risk_level"`
	TopConcerns     []string `json:"top_concerns"`
	Recommendations []string `json:"recommendations"`
}

// Suggest turns a scored assessment into personalized coaching suggestions.
func (c *Client) Suggest(ctx context.Context, in SuggestionsInput) (Suggestions, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return Suggestions{}, fmt.Errorf("ai: marshal input: %w", err)
	}
	prompt := fmt.Sprintf(`You are a supportive digital wellness coach. A user completed a screen-time habits assessment with this result:

%s

Scores run 1-7 where higher means more problematic. Respond with a JSON object with exactly these fields:
{"personalized_message": string, "top_priorities": [strings], "daily_habits": [strings], "mindset_shifts": [strings], "weekly_goal": string, "encouragement": string}

Top priorities, daily habits and mindset shifts should each have at most 3 concrete items.`, payload)

	var out Suggestions
	if err := c.generate(ctx, prompt, &out); err != nil {
		return Suggestions{}, err
	}
	return out, nil
}
