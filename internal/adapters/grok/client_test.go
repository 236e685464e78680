package grok

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goaltracker/core/internal/domain/entities"
	"github.com/goaltracker/core/internal/infrastructure/config"
	"github.com/goaltracker/core/internal/infrastructure/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.GrokConfig{
		BaseURL: srv.URL,
		Model:   "grok-beta",
		Timeout: 2 * time.Second,
	}, logger.NewNop())
}

func completionBody(content string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return body
}

func TestClientSuggest(t *testing.T) {
	ctx := context.Background()

	t.Run("parses a clean JSON array", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer xai-key", r.Header.Get("Authorization"))

			var req chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "grok-beta", req.Model)
			require.Len(t, req.Messages, 2)
			assert.Contains(t, req.Messages[1].Content, "Learn piano")

			w.Write(completionBody(`[{"description":"Practice scales","type":"positive","points":25},{"description":"Skip practice","type":"negative","points":-15}]`))
		})

		suggestions, err := client.Suggest(ctx, "xai-key", "Learn piano", "Daily practice")
		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, "Practice scales", suggestions[0].Description)
		assert.Equal(t, entities.TaskTypePositive, suggestions[0].Type)
		assert.Equal(t, -15, suggestions[1].Points)
	})

	t.Run("strips code fences around the array", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(completionBody("```json\n[{\"description\":\"Read\",\"type\":\"positive\",\"points\":10}]\n```"))
		})

		suggestions, err := client.Suggest(ctx, "xai-key", "Read more", "")
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "Read", suggestions[0].Description)
	})

	t.Run("invalid entries are filtered out", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(completionBody(`[{"description":"","type":"positive","points":10},{"description":"Good","type":"weird","points":10},{"description":"Keep","type":"negative","points":-5}]`))
		})

		suggestions, err := client.Suggest(ctx, "xai-key", "Goal", "")
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "Keep", suggestions[0].Description)
	})

	t.Run("missing key fails fast", func(t *testing.T) {
		called := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := client.Suggest(ctx, "", "Goal", "")
		assert.Error(t, err)
		assert.False(t, called)
	})

	t.Run("api errors surface as errors", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.Suggest(ctx, "bad-key", "Goal", "")
		assert.Error(t, err)
	})

	t.Run("prose without an array is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(completionBody("I cannot help with that."))
		})

		_, err := client.Suggest(ctx, "xai-key", "Goal", "")
		assert.Error(t, err)
	})
}

func TestFallbackSuggestions(t *testing.T) {
	suggestions := FallbackSuggestions("Learn piano")
	require.Len(t, suggestions, 5)

	positive, negative := 0, 0
	for _, s := range suggestions {
		switch s.Type {
		case entities.TaskTypePositive:
			positive++
			assert.Greater(t, s.Points, 0)
		case entities.TaskTypeNegative:
			negative++
			assert.Less(t, s.Points, 0)
		}
	}
	assert.Equal(t, 3, positive)
	assert.Equal(t, 2, negative)
	for _, s := range suggestions {
		assert.Contains(t, s.Description, "Learn piano", "every suggestion names the goal")
	}
	assert.Equal(t, "Work on Learn piano for 30 minutes", suggestions[0].Description)
	assert.Equal(t, -15, suggestions[3].Points)
	assert.Equal(t, -20, suggestions[4].Points)

	assert.Equal(t, suggestions, FallbackSuggestions("Learn piano"), "fallback is deterministic")
}
