// Package genai is a minimal Gemini REST client used to generate new
// challenges when a level's pool runs low. Only the generateContent
// endpoint is wrapped; the caller owns retries and persistence.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/techquest/techquest-backend/internal/config"
	"github.com/techquest/techquest-backend/internal/model"
)

// ErrNoAPIKey is returned when the client is invoked without a configured key.
var ErrNoAPIKey = errors.New("gemini API key is not configured")

// Generator produces new challenges for a level. Satisfied by *Client;
// tests substitute a fake.
type Generator interface {
	GenerateChallenges(ctx context.Context, level model.Level, category string, count int) ([]model.Challenge, error)
}

// Client talks to the Gemini generateContent REST API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient builds a Client from application config.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.GeminiBaseURL, "/"),
		apiKey:     cfg.GeminiAPIKey,
		model:      cfg.GeminiModel,
		httpClient: &http.Client{Timeout: cfg.GeminiTimeout},
		log:        log.With().Str("component", "genai_client").Logger(),
	}
}

// Wire types for the generateContent request/response.

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateChallenges asks the model for count interview challenges at the
// given level and returns them parsed and normalized (level lowercased,
// status approved). Ids are whatever the model produced; the caller
// upserts, so duplicates overwrite silently.
func (c *Client) GenerateChallenges(ctx context.Context, level model.Level, category string, count int) ([]model.Challenge, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if category == "" {
		category = "Java & Spring Boot"
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(level, category, count)}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("gemini error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("gemini returned no candidates")
	}

	text := stripFences(parsed.Candidates[0].Content.Parts[0].Text)

	var challenges []model.Challenge
	if err := json.Unmarshal([]byte(text), &challenges); err != nil {
		return nil, fmt.Errorf("decode challenge array: %w", err)
	}

	out := challenges[:0]
	for _, ch := range challenges {
		ch.Level = model.Level(strings.ToLower(string(ch.Level)))
		ch.Status = model.ChallengeStatusApproved
		if ch.ID == "" || ch.Title == "" || !model.ValidLevel(string(ch.Level)) {
			c.log.Warn().Str("id", ch.ID).Msg("Discarding malformed generated challenge")
			continue
		}
		if ch.Type == "" {
			ch.Type = model.ChallengeTypeExplanation
		}
		out = append(out, ch)
	}
	return out, nil
}

// buildPrompt renders the seeding prompt. The structure block must stay in
// sync with model.Challenge's JSON shape.
func buildPrompt(level model.Level, category string, count int) string {
	return fmt.Sprintf(`Generate %d professional technical interview questions for a %s level developer specialized in %s.
The output MUST be a valid JSON array of objects matching this structure:
{
  "id": string (unique),
  "category": string,
  "level": string ("junior", "intermediate", or "senior"),
  "title": string,
  "description": string,
  "type": "explanation" | "refactor",
  "initial_code": string (optional),
  "expected_code": string (optional),
  "concepts": string[],
  "learning_content": string
}
Return ONLY the JSON.`, count, level, category)
}

// stripFences removes markdown code fences the model tends to wrap JSON in.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
