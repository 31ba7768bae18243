package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/krushisathi/krushi-sathi/internal/domain/updates"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Client fetches current weather from the Open-Meteo forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string) *Client {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Current retrieves the current temperature and wind speed.
func (c *Client) Current(ctx context.Context, lat, lon float64) (updates.Observation, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("current", "temperature_2m,wind_speed_10m")
	query.Set("wind_speed_unit", "ms")
	query.Set("timezone", "auto")
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return updates.Observation{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return updates.Observation{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return updates.Observation{}, fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return updates.Observation{}, fmt.Errorf("read weather response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return updates.Observation{}, fmt.Errorf("decode weather response: %w", err)
	}

	return updates.Observation{
		TemperatureC: raw.Current.Temperature2m,
		WindSpeedMS:  raw.Current.WindSpeed10m,
	}, nil
}

type apiResponse struct {
	Current struct {
		Temperature2m *float64 `json:"temperature_2m"`
		WindSpeed10m  *float64 `json:"wind_speed_10m"`
	} `json:"current"`
}
