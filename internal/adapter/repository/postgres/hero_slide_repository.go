package postgres

import (
	"context"
	"database/sql"

	"github.com/V4T54L/leatherstore/internal/domain"
)

// HeroSlideRepository implements domain.HeroSlideRepository.
type HeroSlideRepository struct {
	db *sql.DB
}

func NewHeroSlideRepository(db *sql.DB) *HeroSlideRepository {
	return &HeroSlideRepository{db: db}
}

const slideColumns = `id, title, subtitle, image_url, link_url, link_text, position, is_active, created_at, updated_at`

func scanSlide(s scanner) (domain.HeroSlide, error) {
	var h domain.HeroSlide
	err := s.Scan(&h.ID, &h.Title, &h.Subtitle, &h.ImageURL, &h.LinkURL, &h.LinkText, &h.Position,
		&h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func (r *HeroSlideRepository) ListActive(ctx context.Context) ([]domain.HeroSlide, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+slideColumns+` FROM hero_slides WHERE is_active ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSlide)
}

func (r *HeroSlideRepository) List(ctx context.Context) ([]domain.HeroSlide, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+slideColumns+` FROM hero_slides ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSlide)
}

func (r *HeroSlideRepository) GetByID(ctx context.Context, id int64) (*domain.HeroSlide, error) {
	h, err := scanSlide(r.db.QueryRowContext(ctx, `SELECT `+slideColumns+` FROM hero_slides WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &h, nil
}

func (r *HeroSlideRepository) Create(ctx context.Context, h *domain.HeroSlide) error {
	query := `INSERT INTO hero_slides (title, subtitle, image_url, link_url, link_text, position, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, h.Title, h.Subtitle, h.ImageURL, h.LinkURL, h.LinkText,
		h.Position, h.IsActive).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	return mapError(err)
}

func (r *HeroSlideRepository) Update(ctx context.Context, h *domain.HeroSlide) error {
	query := `UPDATE hero_slides SET title = $2, subtitle = $3, image_url = $4, link_url = $5,
			link_text = $6, position = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1`
	return expectOne(r.db.ExecContext(ctx, query, h.ID, h.Title, h.Subtitle, h.ImageURL, h.LinkURL,
		h.LinkText, h.Position, h.IsActive))
}

func (r *HeroSlideRepository) Delete(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM hero_slides WHERE id = $1`, id))
}
