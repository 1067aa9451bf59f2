package postgres

import (
	"context"
	"database/sql"

	"github.com/V4T54L/leatherstore/internal/domain"
)

const userColumns = `id, username, email, password_hash, full_name, phone, address, role, is_active, created_at, updated_at`

// UserRepository implements domain.UserRepository.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone,
		&u.Address, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, email, password_hash, full_name, phone, address, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.FullName,
		u.Phone, u.Address, u.Role, u.IsActive).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return mapError(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email = $2, password_hash = $3, full_name = $4, phone = $5, address = $6,
		role = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1`
	return expectOne(r.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.FullName,
		u.Phone, u.Address, u.Role, u.IsActive))
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) (domain.Paginated[domain.User], error) {
	where := `WHERE ($1 = '' OR role = $1) AND ($2 = '' OR username ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')`
	args := []any{string(filter.Role), filter.Search}

	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM users `+where, args...)
	if err != nil {
		return domain.Paginated[domain.User]{}, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users `+where+
		` ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		append(args, filter.Page.Size, filter.Page.Offset())...)
	if err != nil {
		return domain.Paginated[domain.User]{}, err
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return domain.Paginated[domain.User]{}, err
	}
	return domain.NewPaginated(users, filter.Page, total), nil
}
