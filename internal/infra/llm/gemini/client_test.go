package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateContentSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates":[{"content":{"parts":[{"text":"{\"title\":\"T\"}"}],"role":"model"},"finishReason":"STOP"}],
			"usageMetadata":{"promptTokenCount":10,"candidatesTokenCount":20,"totalTokenCount":30}
		}`))
	}))
	defer server.Close()

	client, err := NewClient("secret-key", server.URL)
	require.NoError(t, err)

	resp, err := client.GenerateContent(context.Background(), GenerateRequest{
		Model:    "gemini-1.5-flash",
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "hello"}}}},
		GenerationConfig: GenerationConfig{
			ResponseMIMEType: "application/json",
		},
	})
	require.NoError(t, err)
	require.Equal(t, `{"title":"T"}`, resp.Text())
	require.Equal(t, 10, resp.Usage().PromptTokens)
	require.Equal(t, 30, resp.Usage().TotalTokens)

	require.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	require.Equal(t, "secret-key", gotKey)
	require.NotContains(t, gotBody, "model")
	require.Contains(t, gotBody, "contents")
}

func TestGenerateContentModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"models/gemini-x is not found","status":"NOT_FOUND"}}`, http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient("k", server.URL)
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), GenerateRequest{Model: "gemini-x", Contents: []Content{{Parts: []Part{{Text: "q"}}}}})
	require.ErrorIs(t, err, ErrModelNotFound)
}

func TestGenerateContentAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	client, err := NewClient("k", server.URL)
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), GenerateRequest{Model: "m", Contents: []Content{{Parts: []Part{{Text: "q"}}}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "quota exhausted")
}

func TestGenerateContentNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client, err := NewClient("k", server.URL)
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), GenerateRequest{Model: "m", Contents: []Content{{Parts: []Part{{Text: "q"}}}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no candidates")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("  ", "")
	require.Error(t, err)

	client, err := NewClient("k", "")
	require.NoError(t, err)
	require.Equal(t, defaultBaseURL, client.baseURL)
}

func TestGenerateContentEmptyModel(t *testing.T) {
	client, err := NewClient("k", "http://localhost:0")
	require.NoError(t, err)

	_, err = client.GenerateContent(context.Background(), GenerateRequest{})
	require.Error(t, err)
}
