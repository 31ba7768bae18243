package archive

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/krushisathi/krushi-sathi/internal/domain/advisory"
	apperrors "github.com/krushisathi/krushi-sathi/pkg/errors"
	"github.com/krushisathi/krushi-sathi/pkg/util"
)

// ErrNotConfigured is returned by repository backends that refuse
// writes because no durable store is configured.
var ErrNotConfigured = errors.New("persistence not configured")

// Record is a saved advisory. Records are immutable once written.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Steps     []string  `json:"steps"`
	Lang      string    `json:"lang"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository stores saved advisories. List returns newest first.
type Repository interface {
	Insert(ctx context.Context, rec Record) error
	ListByUser(ctx context.Context, userID string) ([]Record, error)
}

// Service exposes save/list operations over the pluggable repository.
type Service interface {
	Save(ctx context.Context, userID string, adv advisory.Response) (Record, error)
	List(ctx context.Context, userID string) ([]Record, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the archive domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "archive.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Save(ctx context.Context, userID string, adv advisory.Response) (Record, error) {
	if strings.TrimSpace(userID) == "" {
		return Record{}, apperrors.Wrap("invalid_input", "userId required", nil)
	}
	if strings.TrimSpace(adv.Title) == "" || strings.TrimSpace(adv.Text) == "" {
		return Record{}, apperrors.Wrap("invalid_input", "advisory title and text are required", nil)
	}

	source := adv.Source
	if source == "" {
		source = advisory.SourceTemplate
	}
	rec := Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     adv.Title,
		Text:      adv.Text,
		Steps:     append([]string(nil), adv.Steps...),
		Lang:      adv.Lang,
		Source:    source,
		CreatedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return Record{}, apperrors.Wrap("storage_unconfigured", "database not configured", err)
		}
		return Record{}, apperrors.Wrap("storage_error", "failed to save advisory", err)
	}
	s.logger.Info("advisory saved", "id", rec.ID, "user", userID, "lang", rec.Lang)
	return rec, nil
}

func (s *service) List(ctx context.Context, userID string) ([]Record, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.Wrap("invalid_input", "userId required", nil)
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, apperrors.Wrap("storage_unconfigured", "database not configured", err)
		}
		return nil, apperrors.Wrap("storage_error", "failed to list advisories", err)
	}
	return items, nil
}
