package advisoryclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krushisathi/krushi-sathi/internal/domain/advisory"
)

func TestAdviseSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/advisory", r.URL.Path)
		var req advisory.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "yellow leaves", req.Question)
		json.NewEncoder(w).Encode(advisory.Response{Title: "T", Text: "X", Steps: []string{"s"}, Lang: "en", Source: "ai"})
	}))
	defer server.Close()

	client := New(server.URL)
	resp, err := client.Advise(context.Background(), advisory.Request{Question: "yellow leaves", Lang: "en"})
	require.NoError(t, err)
	require.Equal(t, "T", resp.Title)
	require.Equal(t, "ai", resp.Source)
}

func TestAdviseFallbackUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL)
	resp, err := client.Advise(context.Background(), advisory.Request{Question: "q", Lang: "hi"})
	require.NoError(t, err)
	require.Equal(t, "hi", resp.Lang)
	require.Equal(t, advisory.SourceTemplate, resp.Source)
	require.Equal(t, advisory.Unavailable("hi").Text, resp.Text)
}

func TestAdviseFallbackTemplate(t *testing.T) {
	client := New("http://127.0.0.1:0", WithFallbackPolicy(FallbackTemplate))

	resp, err := client.Advise(context.Background(), advisory.Request{Question: "pests", Lang: "en"})
	require.NoError(t, err)
	require.Equal(t, advisory.Template("en", "pests"), resp)
}

func TestAdviseRejectsConcurrentCalls(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		json.NewEncoder(w).Encode(advisory.Response{Title: "T", Text: "X"})
	}))
	defer server.Close()

	client := New(server.URL)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = client.Advise(context.Background(), advisory.Request{Lang: "en"})
	}()

	// Give the first call time to reach the server.
	require.Eventually(t, func() bool {
		_, err := client.Advise(context.Background(), advisory.Request{Lang: "en"})
		return err == ErrRequestInFlight
	}, 2*time.Second, 10*time.Millisecond)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)

	// After completion a new request is accepted again.
	resp, err := client.Advise(context.Background(), advisory.Request{Lang: "en"})
	require.NoError(t, err)
	require.Equal(t, "T", resp.Title)
}

func TestUpdatesCachesSuccess(t *testing.T) {
	payload := `{"weather":{"temperatureC":30,"windKph":12,"description":"d"},"market":[],"schemes":[]}`
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		require.Equal(t, "20.59", r.URL.Query().Get("lat"))
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := New(server.URL)
	lat, lon := 20.59, 78.96

	got, err := client.Updates(context.Background(), &lat, &lon)
	require.NoError(t, err)
	require.JSONEq(t, payload, string(got))

	// The cached copy serves the next failure.
	healthy = false
	got, err = client.Updates(context.Background(), &lat, &lon)
	require.NoError(t, err)
	require.JSONEq(t, payload, string(got))
}

func TestUpdatesCannedFallback(t *testing.T) {
	client := New("http://127.0.0.1:0")

	got, err := client.Updates(context.Background(), nil, nil)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(got, &body))
	weather, ok := body["weather"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Weather unavailable offline", weather["description"])
}

func TestUpdatesRejectsInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	client := New(server.URL)
	got, err := client.Updates(context.Background(), nil, nil)
	// Invalid JSON falls through to the canned offline payload.
	require.NoError(t, err)
	require.True(t, json.Valid(got))
}
