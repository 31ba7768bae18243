package advisory

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/krushisathi/krushi-sathi/internal/infra/llm/gemini"
	apperrors "github.com/krushisathi/krushi-sathi/pkg/errors"
	"github.com/krushisathi/krushi-sathi/pkg/metrics"
)

// Service exposes advisory generation.
type Service interface {
	Advise(ctx context.Context, req Request) (Response, error)
}

// GenerateClient is the slice of the Gemini client the domain needs.
type GenerateClient interface {
	GenerateContent(ctx context.Context, req gemini.GenerateRequest) (gemini.GenerateResponse, error)
}

// ImageStore archives uploaded crop photos for later review. Archival
// is best effort and never fails the advisory itself.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) error
}

type service struct {
	cfg    Config
	client GenerateClient
	images ImageStore
	logger *slog.Logger
}

// NewService wires up the advisory domain. A nil client means no AI
// credential is configured; a nil image store disables photo archival.
func NewService(cfg Config, client GenerateClient, images ImageStore, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		client: client,
		images: images,
		logger: logger.With("component", "advisory.service"),
	}
}

var dataURLPrefixRe = regexp.MustCompile(`^data:image/[a-z]+;base64,`)

func (s *service) Advise(ctx context.Context, req Request) (Response, error) {
	question := truncateRunes(strings.TrimSpace(req.Question), maxQuestionRunes)

	imageData := dataURLPrefixRe.ReplaceAllString(strings.TrimSpace(req.ImageData), "")
	if imageData != "" {
		// Approximate decoded size from the base64 length before
		// touching the payload.
		approxBytes := (len(imageData) * 3) / 4
		if approxBytes > maxImageBytes {
			return Response{}, apperrors.Wrap("image_too_large", "image too large (max 5MB)", nil)
		}
	}

	if s.client == nil {
		if s.cfg.RequireAI {
			return Response{}, apperrors.Wrap("ai_config_error", "no AI credential configured", nil)
		}
		s.logger.Info("ai not configured, serving template advisory", "lang", req.Lang)
		return Template(req.Lang, question), nil
	}

	if imageData != "" {
		s.archiveImage(ctx, imageData)
	}

	raw, usage, err := s.generate(ctx, question, imageData, req.Lang)
	if err != nil {
		return Response{}, err
	}
	s.logger.Debug("raw model output", "lang", req.Lang, "output", raw)
	if !usage.IsZero() {
		s.logger.Info("advisory token usage", "prompt", usage.PromptTokens, "response", usage.ResponseTokens, "total", usage.TotalTokens)
	}

	resp, err := Normalize(raw, req.Lang)
	if err != nil {
		s.logger.Warn("model reply unusable after all repair strategies", "lang", req.Lang)
		return Response{}, apperrors.Wrap("ai_parse_error", "model reply could not be parsed", err)
	}
	s.logger.Debug("normalized advisory", "title", resp.Title, "steps", len(resp.Steps))

	// Echo the request truth regardless of what the model claimed.
	resp.Lang = req.Lang
	resp.Source = SourceAI
	return resp, nil
}

// generate runs the bounded upstream call, retrying once against the
// fallback model when the primary id is unknown.
func (s *service) generate(ctx context.Context, question, imageData, lang string) (string, metrics.TokenUsage, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	req := s.buildRequest(s.cfg.Model, question, imageData, lang)
	resp, err := s.client.GenerateContent(callCtx, req)
	if errors.Is(err, gemini.ErrModelNotFound) && s.cfg.FallbackModel != "" {
		s.logger.Warn("model unavailable, retrying with fallback", "model", s.cfg.Model, "fallback", s.cfg.FallbackModel)
		req.Model = s.cfg.FallbackModel
		resp, err = s.client.GenerateContent(callCtx, req)
	}
	if err != nil {
		return "", metrics.TokenUsage{}, apperrors.Wrap("ai_service_error", "advisory generation failed", err)
	}
	return resp.Text(), resp.Usage(), nil
}

func (s *service) buildRequest(model, question, imageData, lang string) gemini.GenerateRequest {
	parts := []gemini.Part{{Text: s.userPrompt(question, imageData != "")}}
	if imageData != "" {
		parts = append(parts, gemini.Part{InlineData: &gemini.InlineData{
			MIMEType: "image/jpeg",
			Data:     imageData,
		}})
	}
	return gemini.GenerateRequest{
		Model:             model,
		Contents:          []gemini.Content{{Role: "user", Parts: parts}},
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: s.systemPrompt(lang)}}},
		GenerationConfig: gemini.GenerationConfig{
			Temperature:      s.cfg.Temperature,
			MaxOutputTokens:  s.cfg.MaxOutputTokens,
			ResponseMIMEType: "application/json",
		},
	}
}

func (s *service) systemPrompt(lang string) string {
	return fmt.Sprintf(`You are an expert agricultural advisor. Provide practical, actionable advice for small-scale farmers in %s.

Respond ONLY with a valid JSON object with these fields:
- title: a brief title for the advisory
- text: a detailed explanation of the issue and solution
- steps: an array of 3-4 specific action steps
- lang: %q
- source: "ai"

Keep advice practical, safe and low-cost. Prefer organic and sustainable methods whenever possible. Never return plain text or markdown outside the JSON object.`, languageName(lang), lang)
}

func (s *service) userPrompt(question string, hasImage bool) string {
	prompt := "Farmer's question: " + question
	if question == "" {
		prompt = "The farmer did not type a question."
	}
	if hasImage {
		prompt += "\n\nAlso analyze the attached photo of the crop or field together with the question."
	}
	return prompt
}

func (s *service) archiveImage(ctx context.Context, imageData string) {
	if s.images == nil {
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		s.logger.Warn("skipping photo archive, invalid base64", "error", err)
		return
	}
	key := "uploads/" + uuid.NewString() + ".jpg"
	putCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.images.Put(putCtx, key, decoded, "image/jpeg"); err != nil {
		s.logger.Warn("photo archive failed", "key", key, "error", err)
		return
	}
	s.logger.Info("photo archived", "key", key, "bytes", len(decoded))
}

func (s *service) timeout() time.Duration {
	if s.cfg.Timeout > 0 {
		return s.cfg.Timeout
	}
	return 20 * time.Second
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
