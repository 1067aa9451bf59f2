package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/V4T54L/leatherstore/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository.
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, name, slug, description, created_at`

func scanCategory(s scanner) (domain.Category, error) {
	var c domain.Category
	err := s.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	return c, err
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCategory)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug))
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, slug, description) VALUES ($1, $2, $3) RETURNING id, created_at`,
		c.Name, c.Slug, c.Description).Scan(&c.ID, &c.CreatedAt)
	return mapError(err)
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE categories SET name = $2, slug = $3, description = $4 WHERE id = $1`,
		c.ID, c.Name, c.Slug, c.Description))
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	err := expectOne(r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id))
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrCategoryInUse
	}
	return err
}

// ProductRepository implements domain.ProductRepository.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `p.id, p.name, p.slug, p.description, p.short_description, p.price, p.stock_quantity,
	p.image_url, p.is_active, p.views_count, p.category_id, p.created_at, p.updated_at`

func scanProduct(s scanner) (domain.Product, error) {
	var p domain.Product
	err := s.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription, &p.Price,
		&p.StockQuantity, &p.ImageURL, &p.IsActive, &p.ViewsCount, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) (domain.Paginated[domain.Product], error) {
	from := ` FROM products p JOIN categories c ON c.id = p.category_id
		WHERE ($1 = '' OR c.slug = $1)
		AND ($2 = '' OR p.name ILIKE '%' || $2 || '%' OR p.description ILIKE '%' || $2 || '%')
		AND (NOT $3 OR p.is_active)`
	args := []any{filter.CategorySlug, filter.Search, filter.ActiveOnly}

	total, err := count(ctx, r.db, `SELECT COUNT(*)`+from, args...)
	if err != nil {
		return domain.Paginated[domain.Product]{}, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+from+
		` ORDER BY p.created_at DESC, p.id DESC LIMIT $4 OFFSET $5`,
		append(args, filter.Page.Size, filter.Page.Offset())...)
	if err != nil {
		return domain.Paginated[domain.Product]{}, err
	}
	products, err := collect(rows, scanProduct)
	if err != nil {
		return domain.Paginated[domain.Product]{}, err
	}
	return domain.NewPaginated(products, filter.Page, total), nil
}

func (r *ProductRepository) Latest(ctx context.Context, limit int) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.is_active ORDER BY p.created_at DESC, p.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProduct)
}

func (r *ProductRepository) Popular(ctx context.Context, limit int) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.is_active ORDER BY p.views_count DESC, p.id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProduct)
}

func (r *ProductRepository) Active(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.is_active ORDER BY p.name, p.id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProduct)
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products p WHERE p.slug = $1`, slug))
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	out := make(map[int64]domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	products, err := collect(rows, scanProduct)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (name, slug, description, short_description, price, stock_quantity,
			image_url, is_active, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Slug, p.Description, p.ShortDescription, p.Price,
		p.StockQuantity, p.ImageURL, p.IsActive, p.CategoryID).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapError(err)
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name = $2, slug = $3, description = $4, short_description = $5,
			price = $6, stock_quantity = $7, image_url = $8, is_active = $9, category_id = $10,
			updated_at = NOW()
		WHERE id = $1`
	return expectOne(r.db.ExecContext(ctx, query, p.ID, p.Name, p.Slug, p.Description, p.ShortDescription,
		p.Price, p.StockQuantity, p.ImageURL, p.IsActive, p.CategoryID))
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id))
}

func (r *ProductRepository) IncrementViews(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE products SET views_count = views_count + 1 WHERE id = $1`, id))
}
