package postgres

import (
	"context"
	"database/sql"

	"github.com/V4T54L/leatherstore/internal/domain"
)

// BlogRepository implements domain.BlogRepository.
type BlogRepository struct {
	db *sql.DB
}

func NewBlogRepository(db *sql.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

const blogColumns = `id, title, slug, content, excerpt, image_url, author_id, is_published, views_count,
	created_at, updated_at, published_at`

func scanPost(s scanner) (domain.BlogPost, error) {
	var p domain.BlogPost
	var publishedAt sql.NullTime
	err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.ImageURL, &p.AuthorID,
		&p.IsPublished, &p.ViewsCount, &p.CreatedAt, &p.UpdatedAt, &publishedAt)
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	return p, err
}

func (r *BlogRepository) List(ctx context.Context, publishedOnly bool, page domain.Page) (domain.Paginated[domain.BlogPost], error) {
	where := ` FROM blog_posts WHERE (NOT $1 OR is_published)`

	total, err := count(ctx, r.db, `SELECT COUNT(*)`+where, publishedOnly)
	if err != nil {
		return domain.Paginated[domain.BlogPost]{}, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+blogColumns+where+
		` ORDER BY COALESCE(published_at, created_at) DESC, id DESC LIMIT $2 OFFSET $3`,
		publishedOnly, page.Size, page.Offset())
	if err != nil {
		return domain.Paginated[domain.BlogPost]{}, err
	}
	posts, err := collect(rows, scanPost)
	if err != nil {
		return domain.Paginated[domain.BlogPost]{}, err
	}
	return domain.NewPaginated(posts, page, total), nil
}

func (r *BlogRepository) Latest(ctx context.Context, limit int) ([]domain.BlogPost, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+blogColumns+` FROM blog_posts
		WHERE is_published ORDER BY published_at DESC NULLS LAST, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPost)
}

func (r *BlogRepository) Published(ctx context.Context) ([]domain.BlogPost, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+blogColumns+` FROM blog_posts
		WHERE is_published ORDER BY published_at DESC NULLS LAST, id DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPost)
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*domain.BlogPost, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1`, slug))
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *BlogRepository) Create(ctx context.Context, p *domain.BlogPost) error {
	query := `INSERT INTO blog_posts (title, slug, content, excerpt, image_url, author_id, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.Title, p.Slug, p.Content, p.Excerpt, p.ImageURL, p.AuthorID,
		p.IsPublished, p.PublishedAt).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapError(err)
}

func (r *BlogRepository) Update(ctx context.Context, p *domain.BlogPost) error {
	query := `UPDATE blog_posts SET title = $2, slug = $3, content = $4, excerpt = $5, image_url = $6,
			is_published = $7, published_at = $8, updated_at = NOW()
		WHERE id = $1`
	return expectOne(r.db.ExecContext(ctx, query, p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.ImageURL,
		p.IsPublished, p.PublishedAt))
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id))
}

func (r *BlogRepository) IncrementViews(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE blog_posts SET views_count = views_count + 1 WHERE id = $1`, id))
}
