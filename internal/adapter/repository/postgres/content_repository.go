package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/V4T54L/leatherstore/internal/domain"
)

// ContentRepository implements domain.ContentRepository.
type ContentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

const contentColumns = `id, key, title, content, content_type, section, updated_by_id, created_at, updated_at`

func scanContent(s scanner) (domain.ContentBlock, error) {
	var b domain.ContentBlock
	var updatedBy sql.NullInt64
	err := s.Scan(&b.ID, &b.Key, &b.Title, &b.Content, &b.ContentType, &b.Section, &updatedBy,
		&b.CreatedAt, &b.UpdatedAt)
	if updatedBy.Valid {
		b.UpdatedByID = &updatedBy.Int64
	}
	return b, err
}

func (r *ContentRepository) Get(ctx context.Context, key string) (*domain.ContentBlock, error) {
	b, err := scanContent(r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM content WHERE key = $1`, key))
	if err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *ContentRepository) GetMany(ctx context.Context, keys []string) (map[string]domain.ContentBlock, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contentColumns+` FROM content WHERE key = ANY($1)`, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	blocks, err := collect(rows, scanContent)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ContentBlock, len(blocks))
	for _, b := range blocks {
		out[b.Key] = b
	}
	return out, nil
}

func (r *ContentRepository) List(ctx context.Context) ([]domain.ContentBlock, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contentColumns+` FROM content ORDER BY section, key`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanContent)
}

func (r *ContentRepository) Upsert(ctx context.Context, b *domain.ContentBlock) error {
	query := `INSERT INTO content (key, title, content, content_type, section, updated_by_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			content_type = EXCLUDED.content_type,
			section = EXCLUDED.section,
			updated_by_id = EXCLUDED.updated_by_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, b.Key, b.Title, b.Content, b.ContentType, b.Section, b.UpdatedByID).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return mapError(err)
}

func (r *ContentRepository) Delete(ctx context.Context, key string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM content WHERE key = $1`, key))
}
