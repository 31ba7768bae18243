package advisoryrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krushisathi/krushi-sathi/internal/domain/archive"
)

// PostgresRepository implements archive.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository and ensures the
// advisories table exists.
func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepository, error) {
	repo := &PostgresRepository{pool: pool}
	if err := repo.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure advisories schema: %w", err)
	}
	return repo, nil
}

func (r *PostgresRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS advisories (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			steps JSONB NOT NULL,
			lang TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'template',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// Insert stores a saved advisory. Steps cross the storage boundary as
// a JSON array.
func (r *PostgresRepository) Insert(ctx context.Context, rec archive.Record) error {
	steps, err := json.Marshal(rec.Steps)
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO advisories (id, user_id, title, body, steps, lang, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.UserID, rec.Title, rec.Text, steps, rec.Lang, rec.Source, rec.CreatedAt)
	return err
}

// ListByUser returns the user's saved advisories newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]archive.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, body, steps, lang, source, created_at
		FROM advisories
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]archive.Record, 0)
	for rows.Next() {
		var (
			rec   archive.Record
			steps []byte
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Text, &steps, &rec.Lang, &rec.Source, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(steps, &rec.Steps); err != nil {
			return nil, fmt.Errorf("decode steps for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ archive.Repository = (*PostgresRepository)(nil)
