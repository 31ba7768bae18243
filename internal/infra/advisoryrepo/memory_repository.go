package advisoryrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/krushisathi/krushi-sathi/internal/domain/archive"
)

// MemoryRepository is the in-process archive backend used when no
// database is configured. Contents are lost on restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []archive.Record
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Insert implements archive.Repository.
func (r *MemoryRepository) Insert(_ context.Context, rec archive.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.Steps = append([]string(nil), rec.Steps...)
	r.records = append(r.records, rec)
	return nil
}

// ListByUser implements archive.Repository.
func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]archive.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]archive.Record, 0)
	for _, rec := range r.records {
		if rec.UserID != userID {
			continue
		}
		rec.Steps = append([]string(nil), rec.Steps...)
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ archive.Repository = (*MemoryRepository)(nil)
