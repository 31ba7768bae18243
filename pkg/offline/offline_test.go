package offline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResponderKnownRoutes(t *testing.T) {
	r := NewResponder()

	payload, ok := r.Payload("/api/advisory")
	require.True(t, ok)
	var advisory map[string]any
	require.NoError(t, json.Unmarshal(payload, &advisory))
	require.Equal(t, "Offline Advisory", advisory["title"])
	require.Equal(t, "offline", advisory["source"])
	require.Len(t, advisory["steps"], 4)

	payload, ok = r.Payload("https://example.com/api/updates?lat=1")
	require.True(t, ok)
	var updates map[string]any
	require.NoError(t, json.Unmarshal(payload, &updates))
	require.Contains(t, updates, "weather")
	require.Contains(t, updates, "market")
}

func TestResponderUnknownRoute(t *testing.T) {
	r := NewResponder()
	_, ok := r.Payload("/api/unknown")
	require.False(t, ok)
}

func TestResponderEarlierRegistrationWins(t *testing.T) {
	r := &Responder{}
	r.Register("/api", []byte(`{"v":1}`))
	r.Register("/api/advisory", []byte(`{"v":2}`))

	payload, ok := r.Payload("/api/advisory")
	require.True(t, ok)
	require.JSONEq(t, `{"v":1}`, string(payload))
}

func TestCacheVersioning(t *testing.T) {
	c := NewCache("v1")
	c.Install(map[string][]byte{
		"/":          []byte("index"),
		"/style.css": []byte("css"),
	})
	require.Equal(t, 2, c.Len())

	got, ok := c.Get("/")
	require.True(t, ok)
	require.Equal(t, []byte("index"), got)

	c.Put("/api/updates", []byte(`{}`))
	require.Equal(t, 3, c.Len())

	// Activating a new version evicts everything from the old one.
	c.Activate("v2")
	require.Equal(t, 0, c.Len())
	_, ok = c.Get("/")
	require.False(t, ok)

	c.Put("/fresh", []byte("new"))
	got, ok = c.Get("/fresh")
	require.True(t, ok)
	require.Equal(t, []byte("new"), got)
}

func TestCacheCopiesPayloads(t *testing.T) {
	c := NewCache("v1")
	payload := []byte("original")
	c.Put("/p", payload)
	payload[0] = 'X'

	got, ok := c.Get("/p")
	require.True(t, ok)
	require.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, _ := c.Get("/p")
	require.Equal(t, []byte("original"), again)
}
