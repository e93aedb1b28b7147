package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAIResponse(t *testing.T) {
	t.Run("blog suggestion", func(t *testing.T) {
		resp, err := ParseAIResponse([]byte(`{"kind":"blog_suggestion","title":"หัวข้อ","excerpt":"เกริ่นนำ"}`))
		require.NoError(t, err)
		assert.Equal(t, AIKindBlogSuggestion, resp.Kind)
		assert.Equal(t, "หัวข้อ", resp.Title)
	})

	t.Run("threat report", func(t *testing.T) {
		resp, err := ParseAIResponse([]byte(`{"kind":"threat_report","summary":"ok","findings":["a","b"]}`))
		require.NoError(t, err)
		assert.Len(t, resp.Findings, 2)
	})

	t.Run("plain text", func(t *testing.T) {
		resp, err := ParseAIResponse([]byte(`{"kind":"plain_text","text":"hello"}`))
		require.NoError(t, err)
		assert.Equal(t, "hello", resp.Text)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := ParseAIResponse([]byte(`{"kind":"haiku","text":"hello"}`))
		assert.Error(t, err)
	})

	t.Run("missing required field is rejected", func(t *testing.T) {
		_, err := ParseAIResponse([]byte(`{"kind":"blog_suggestion","excerpt":"no title"}`))
		assert.Error(t, err)
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		_, err := ParseAIResponse([]byte(`not json`))
		assert.Error(t, err)
	})
}

func TestAIClientUnconfigured(t *testing.T) {
	var nilClient *AIClient
	_, err := nilClient.SuggestBlogMeta(context.Background(), "draft")
	assert.ErrorIs(t, err, ErrAIUnavailable)

	empty := NewAIClient("", "")
	_, err = empty.Analyze(context.Background(), "who is posting scams", nil)
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestAIClientKindMismatch(t *testing.T) {
	// The endpoint answers with the wrong kind for the call made.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"kind":"blog_suggestion","title":"x"}`))
	}))
	defer server.Close()

	client := NewAIClient(server.URL, "test-key")

	_, err := client.Analyze(context.Background(), "scan", nil)
	assert.Error(t, err)

	resp, err := client.SuggestBlogMeta(context.Background(), "draft")
	require.NoError(t, err)
	assert.Equal(t, "x", resp.Title)
}

func TestAIClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewAIClient(server.URL, "test-key")
	_, err := client.SuggestBlogMeta(context.Background(), "draft")
	assert.Error(t, err)
}
