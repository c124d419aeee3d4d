package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bread-converter/internal/core/ai"
	"bread-converter/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.OpenRouterConfig{
		BaseURL:   srv.URL,
		APIKey:    "sk-test",
		Model:     "test/model",
		MaxTokens: 512,
		Timeout:   5 * time.Second,
	})
}

func TestGenerateResponse(t *testing.T) {
	t.Parallel()

	var got ai.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","model":"test/model","choices":[{"message":{"role":"assistant","content":"{\"ingredients\":[]}"}}],"usage":{"total_tokens":12}}`))
	})

	content, err := c.GenerateResponse(context.Background(), "system rules", "500g flour", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, `{"ingredients":[]}`, content)

	assert.Equal(t, "test/model", got.Model)
	assert.Equal(t, 512, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, ai.RoleSystem, got.Messages[0].Role)
	user := got.Messages[1]
	require.Len(t, user.Content, 2)
	assert.Equal(t, "500g flour", user.Content[0].Text)
	assert.Equal(t, "data:image/png;base64,AAAA", user.Content[1].ImageURL.URL)
}

func TestCompleteErrorStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found","code":401}}`))
	})

	_, err := c.GenerateResponse(context.Background(), "", "hi", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "No auth credentials found")
}

func TestCompleteEmptyChoices(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"gen-2","choices":[]}`))
	})

	_, err := c.Complete(context.Background(), ai.Request{Messages: []ai.Message{ai.TextMessage(ai.RoleUser, "hi")}})
	assert.ErrorContains(t, err, "no content")
}

func TestSanitizeResponse(t *testing.T) {
	t.Parallel()

	body := []byte(`{"echo":"data:image/jpeg;base64,/9j/4AAQSkZJRg==","pad":"` + strings.Repeat("x", 1000) + `"}`)
	out := sanitizeResponse(body)

	assert.NotContains(t, out, "/9j/")
	assert.Contains(t, out, "[IMAGE_DATA_REMOVED]")
	assert.True(t, strings.HasSuffix(out, "...(truncated)"))
}
