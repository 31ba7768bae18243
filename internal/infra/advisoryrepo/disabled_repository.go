package advisoryrepo

import (
	"context"

	"github.com/krushisathi/krushi-sathi/internal/domain/archive"
)

// DisabledRepository is wired in production when no database is
// configured. Every operation reports the missing configuration so the
// HTTP layer can answer 503 instead of silently losing data.
type DisabledRepository struct{}

// NewDisabledRepository constructs the sentinel repository.
func NewDisabledRepository() *DisabledRepository {
	return &DisabledRepository{}
}

// Insert implements archive.Repository.
func (*DisabledRepository) Insert(context.Context, archive.Record) error {
	return archive.ErrNotConfigured
}

// ListByUser implements archive.Repository.
func (*DisabledRepository) ListByUser(context.Context, string) ([]archive.Record, error) {
	return nil, archive.ErrNotConfigured
}

var _ archive.Repository = (*DisabledRepository)(nil)
