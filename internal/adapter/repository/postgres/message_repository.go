package postgres

import (
	"context"
	"database/sql"

	"github.com/V4T54L/leatherstore/internal/domain"
)

// MessageRepository implements domain.MessageRepository.
type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, name, email, phone, message, is_read, created_at`

func scanMessage(s scanner) (domain.ContactMessage, error) {
	var m domain.ContactMessage
	err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.IsRead, &m.CreatedAt)
	return m, err
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO contact_messages (name, email, phone, message) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		m.Name, m.Email, m.Phone, m.Message).Scan(&m.ID, &m.CreatedAt)
	return mapError(err)
}

func (r *MessageRepository) List(ctx context.Context, page domain.Page) (domain.Paginated[domain.ContactMessage], error) {
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM contact_messages`)
	if err != nil {
		return domain.Paginated[domain.ContactMessage]{}, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM contact_messages
		ORDER BY is_read, created_at DESC LIMIT $1 OFFSET $2`, page.Size, page.Offset())
	if err != nil {
		return domain.Paginated[domain.ContactMessage]{}, err
	}
	msgs, err := collect(rows, scanMessage)
	if err != nil {
		return domain.Paginated[domain.ContactMessage]{}, err
	}
	return domain.NewPaginated(msgs, page, total), nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM contact_messages WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE contact_messages SET is_read = TRUE WHERE id = $1`, id))
}

func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id))
}

// DashboardRepository implements domain.DashboardRepository.
type DashboardRepository struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Stats gathers every counter in one round trip. Cancelled orders do not count
// towards revenue.
func (r *DashboardRepository) Stats(ctx context.Context) (domain.DashboardStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM products),
		(SELECT COUNT(*) FROM orders),
		(SELECT COUNT(*) FROM orders WHERE status = 'pending'),
		(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> 'cancelled'),
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM blog_posts),
		(SELECT COUNT(*) FROM contact_messages WHERE NOT is_read)`
	var s domain.DashboardStats
	err := r.db.QueryRowContext(ctx, query).Scan(&s.Products, &s.Orders, &s.PendingOrders, &s.Revenue,
		&s.Users, &s.BlogPosts, &s.UnreadMessages)
	return s, err
}
