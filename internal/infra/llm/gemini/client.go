package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/krushisathi/krushi-sathi/pkg/metrics"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrModelNotFound signals the requested model id is unknown upstream,
// allowing callers to retry against a fallback model.
var ErrModelNotFound = errors.New("gemini model not found")

// Part is a fragment of request or response content.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64 encoded media alongside a text prompt.
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Content groups parts under a conversational role.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig mirrors the Gemini generation parameters.
type GenerationConfig struct {
	Temperature      float32 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

// GenerateRequest is the payload sent to the generateContent endpoint.
// Model selects the URL and is not serialized.
type GenerateRequest struct {
	Model             string           `json:"-"`
	Contents          []Content        `json:"contents"`
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
}

// GenerateResponse captures the response for non streaming calls.
type GenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
			Role  string `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Text concatenates all text parts of the first candidate.
func (r GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

// Usage converts the response usage metadata.
func (r GenerateResponse) Usage() metrics.TokenUsage {
	return metrics.TokenUsage{
		PromptTokens:   r.UsageMetadata.PromptTokenCount,
		ResponseTokens: r.UsageMetadata.CandidatesTokenCount,
		TotalTokens:    r.UsageMetadata.TotalTokenCount,
	}
}

// Client performs HTTP requests to the Gemini API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Gemini client.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// GenerateContent triggers a sync generation call. Cancelling the
// context abandons the call; the eventual upstream result is discarded.
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	var out GenerateResponse
	if strings.TrimSpace(req.Model) == "" {
		return out, errors.New("gemini model cannot be empty")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return out, fmt.Errorf("encode generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(req.Model), url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return out, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return out, fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return out, fmt.Errorf("read generate response: %w", err)
	}

	if resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusNotFound || mentionsUnknownModel(body) {
			return out, fmt.Errorf("%w: model=%s status=%d", ErrModelNotFound, req.Model, resp.StatusCode)
		}
		return out, fmt.Errorf("gemini request failed: status=%d body=%s", resp.StatusCode, truncate(body, 4<<10))
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode generate response: %w", err)
	}
	if out.Error != nil {
		if out.Error.Status == "NOT_FOUND" {
			return out, fmt.Errorf("%w: model=%s", ErrModelNotFound, req.Model)
		}
		return out, fmt.Errorf("gemini api error: %s", out.Error.Message)
	}
	if len(out.Candidates) == 0 {
		return out, errors.New("gemini returned no candidates")
	}
	return out, nil
}

func mentionsUnknownModel(body []byte) bool {
	s := string(body)
	return strings.Contains(s, "NOT_FOUND") && strings.Contains(s, "models/")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
