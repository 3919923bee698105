package genai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techquest/techquest-backend/internal/config"
	"github.com/techquest/techquest-backend/internal/genai"
	"github.com/techquest/techquest-backend/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *genai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		GeminiAPIKey:  "test-key",
		GeminiBaseURL: srv.URL,
		GeminiModel:   "gemini-1.5-flash",
		GeminiTimeout: 5 * time.Second,
	}
	return genai.NewClient(cfg, zerolog.Nop())
}

// candidateResponse wraps text the way the generateContent API does.
func candidateResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
}

func TestGenerateChallenges(t *testing.T) {
	t.Run("parses fenced JSON and normalizes records", func(t *testing.T) {
		payload := "```json\n" + `[
			{"id": "gen-1", "category": "Java", "level": "JUNIOR", "title": "Explain GC", "description": "...", "concepts": ["garbage collector"], "learning_content": "..."},
			{"id": "", "category": "Java", "level": "junior", "title": "No id", "description": "...", "concepts": [], "learning_content": "..."},
			{"id": "gen-2", "category": "Java", "level": "wizard", "title": "Bad level", "description": "...", "concepts": [], "learning_content": "..."}
		]` + "\n```"

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Contains(t, r.URL.Path, "gemini-1.5-flash")
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			json.NewEncoder(w).Encode(candidateResponse(payload))
		})

		challenges, err := client.GenerateChallenges(context.Background(), model.LevelJunior, "Java", 3)
		require.NoError(t, err)

		// The record without an id and the one with an unknown level are dropped.
		require.Len(t, challenges, 1)
		assert.Equal(t, "gen-1", challenges[0].ID)
		assert.Equal(t, model.LevelJunior, challenges[0].Level)
		assert.Equal(t, model.ChallengeStatusApproved, challenges[0].Status)
		assert.Equal(t, model.ChallengeTypeExplanation, challenges[0].Type)
	})

	t.Run("missing API key fails before any call", func(t *testing.T) {
		cfg := &config.Config{GeminiBaseURL: "http://unused", GeminiTimeout: time.Second}
		noKey := genai.NewClient(cfg, zerolog.Nop())

		_, err := noKey.GenerateChallenges(context.Background(), model.LevelJunior, "", 1)
		assert.ErrorIs(t, err, genai.ErrNoAPIKey)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
		})

		_, err := client.GenerateChallenges(context.Background(), model.LevelSenior, "", 5)
		assert.ErrorContains(t, err, "429")
	})

	t.Run("API-level error object is surfaced", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": 400, "message": "invalid model"},
			})
		})

		_, err := client.GenerateChallenges(context.Background(), model.LevelSenior, "", 5)
		assert.ErrorContains(t, err, "invalid model")
	})

	t.Run("empty candidates is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
		})

		_, err := client.GenerateChallenges(context.Background(), model.LevelJunior, "", 1)
		assert.ErrorContains(t, err, "no candidates")
	})

	t.Run("non-JSON model output is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(candidateResponse("Sorry, I cannot help with that."))
		})

		_, err := client.GenerateChallenges(context.Background(), model.LevelJunior, "", 1)
		assert.ErrorContains(t, err, "decode challenge array")
	})
}
