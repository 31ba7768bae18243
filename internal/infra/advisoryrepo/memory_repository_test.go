package advisoryrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krushisathi/krushi-sathi/internal/domain/archive"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	records := []archive.Record{
		{ID: "1", UserID: "u1", Title: "First", Text: "a", Lang: "en", Source: "ai", CreatedAt: base},
		{ID: "2", UserID: "u1", Title: "Second", Text: "b", Lang: "hi", Source: "template", CreatedAt: base.Add(time.Hour)},
		{ID: "3", UserID: "u2", Title: "Other", Text: "c", Lang: "en", Source: "ai", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, rec := range records {
		require.NoError(t, repo.Insert(context.Background(), rec))
	}

	items, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Newest first.
	require.Equal(t, "2", items[0].ID)
	require.Equal(t, "1", items[1].ID)

	other, err := repo.ListByUser(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, other, 1)

	none, err := repo.ListByUser(context.Background(), "unknown")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMemoryRepositoryCopiesSteps(t *testing.T) {
	repo := NewMemoryRepository()
	steps := []string{"one", "two"}
	require.NoError(t, repo.Insert(context.Background(), archive.Record{ID: "1", UserID: "u", Steps: steps}))

	steps[0] = "mutated"
	items, err := repo.ListByUser(context.Background(), "u")
	require.NoError(t, err)
	require.Equal(t, "one", items[0].Steps[0])

	items[0].Steps[1] = "also mutated"
	again, err := repo.ListByUser(context.Background(), "u")
	require.NoError(t, err)
	require.Equal(t, "two", again[0].Steps[1])
}

func TestDisabledRepository(t *testing.T) {
	repo := NewDisabledRepository()

	err := repo.Insert(context.Background(), archive.Record{ID: "1"})
	require.ErrorIs(t, err, archive.ErrNotConfigured)

	_, err = repo.ListByUser(context.Background(), "u")
	require.ErrorIs(t, err, archive.ErrNotConfigured)
}
