package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrentSuccess(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"latitude":        r.URL.Query().Get("latitude"),
			"longitude":       r.URL.Query().Get("longitude"),
			"current":         r.URL.Query().Get("current"),
			"wind_speed_unit": r.URL.Query().Get("wind_speed_unit"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current":{"temperature_2m":29.7,"wind_speed_10m":3.1}}`))
	}))
	defer server.Close()

	obs, err := NewClient(server.URL).Current(context.Background(), 20.59, 78.96)
	require.NoError(t, err)
	require.Equal(t, 29.7, *obs.TemperatureC)
	require.Equal(t, 3.1, *obs.WindSpeedMS)

	require.Equal(t, "20.59", gotQuery["latitude"])
	require.Equal(t, "78.96", gotQuery["longitude"])
	require.Equal(t, "temperature_2m,wind_speed_10m", gotQuery["current"])
	require.Equal(t, "ms", gotQuery["wind_speed_unit"])
}

func TestCurrentMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"current":{}}`))
	}))
	defer server.Close()

	obs, err := NewClient(server.URL).Current(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Nil(t, obs.TemperatureC)
	require.Nil(t, obs.WindSpeedMS)
}

func TestCurrentUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Current(context.Background(), 0, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=400")
}

func TestCurrentMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Current(context.Background(), 0, 0)
	require.Error(t, err)
}
