package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// newTestClient はhttptestサーバーに向けたgenaiクライアントを生成するヘルパー関数です。
func newTestClient(t *testing.T, h http.HandlerFunc) *genai.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), "test-key", srv.URL, srv.Client())
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

// blockingLimiter は常にエラーを返すLimiterのモック実装です。
type blockingLimiter struct{ calls int }

func (b *blockingLimiter) Wait(ctx context.Context) error {
	b.calls++
	return context.DeadlineExceeded
}

func TestToRawResponse(t *testing.T) {
	t.Parallel()

	t.Run("candidate text becomes content", func(t *testing.T) {
		t.Parallel()

		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Role:  "model",
					Parts: []*genai.Part{{Text: "### Strengths\n* Brand"}},
				},
			}},
		}
		raw := toRawResponse(resp)

		assert.True(t, raw.HasContent())
		assert.Equal(t, "### Strengths\n* Brand", raw.Text())
	})

	t.Run("no candidates falls back to representation", func(t *testing.T) {
		t.Parallel()

		raw := toRawResponse(&genai.GenerateContentResponse{ModelVersion: "gemini-test"})

		assert.False(t, raw.HasContent())
		assert.Contains(t, raw.Text(), "gemini-test")
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		raw := toRawResponse(nil)

		assert.False(t, raw.HasContent())
		assert.Equal(t, "null", raw.Text())
	})
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	bodies := make(chan map[string]any, 1)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies <- body
		writeJSON(t, w, map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": "### Threats\n* Rivals"}},
				},
			}},
		})
	})

	g := NewGenerator(client, "", nil)
	raw, err := g.Generate(context.Background(), "prompt text")
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, g.model)
	assert.True(t, raw.HasContent())
	assert.Equal(t, "### Threats\n* Rivals", raw.Text())

	gotBody := <-bodies
	gen, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig should be sent")
	assert.InDelta(t, 0.7, gen["temperature"], 0.0001)
}

func TestGenerator_Generate_ServerError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(t, w, map[string]any{"error": map[string]any{"code": 401, "message": "API key not valid", "status": "UNAUTHENTICATED"}})
	})

	_, err := NewGenerator(client, "gemini-test", nil).Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini API request failed")
}

func TestGenerator_Generate_LimiterError(t *testing.T) {
	t.Parallel()

	var called atomic.Bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	})
	limiter := &blockingLimiter{}

	_, err := NewGenerator(client, "gemini-test", limiter).Generate(context.Background(), "prompt")

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 1, limiter.calls)
	assert.False(t, called.Load(), "API must not be called when the limiter refuses")
}

func TestTokenizer_CountTokens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":countTokens"), r.URL.Path)
		writeJSON(t, w, map[string]any{"totalTokens": 7})
	})
	tok := NewTokenizer(client, "gemini-test")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := tok.CountTokens(ctx, "hello world")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = tok.CountTokens(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, int32(1), calls.Load(), "empty text must not call the API")
}
