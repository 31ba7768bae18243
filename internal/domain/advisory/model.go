package advisory

import "time"

// Request captures one advisory submission from the client.
type Request struct {
	Question  string `json:"question,omitempty"`
	ImageData string `json:"imageBase64,omitempty"`
	Lang      string `json:"lang"`
}

// Response is the advisory serialized back to API consumers.
type Response struct {
	Title  string   `json:"title"`
	Text   string   `json:"text"`
	Steps  []string `json:"steps"`
	Lang   string   `json:"lang"`
	Source string   `json:"source"`
}

// Source values stamped on every response. The model is never trusted
// to set them.
const (
	SourceAI       = "ai"
	SourceTemplate = "template"
)

// Config wires runtime dependencies for the advisory domain.
type Config struct {
	Model           string
	FallbackModel   string
	Temperature     float32
	MaxOutputTokens int
	Timeout         time.Duration
	RequireAI       bool
}

const (
	maxQuestionRunes = 2000
	maxImageBytes    = 5 * 1024 * 1024
)
