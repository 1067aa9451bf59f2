package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/V4T54L/leatherstore/internal/domain"
)

// OrderRepository implements domain.OrderRepository.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, status, total_amount, shipping_address, phone, notes, created_at, updated_at`

func scanOrder(s scanner) (domain.Order, error) {
	var o domain.Order
	err := s.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.ShippingAddress, &o.Phone, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// Create locks the ordered products, re-prices the items from the locked rows,
// inserts the order and its items with COPY and decrements stock.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	if len(o.Items) == 0 {
		return domain.ErrEmptyCart
	}

	tx, err := beginTx(ctx, r.db)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Rollback is a no-op if Commit() is called

	ids := make([]int64, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.ProductID
	}
	rows, err := tx.QueryContext(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = ANY($1) FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return err
	}
	locked, err := collect(rows, scanProduct)
	if err != nil {
		return err
	}
	byID := make(map[int64]domain.Product, len(locked))
	for _, p := range locked {
		byID[p.ID] = p
	}

	var total domain.Money
	for i := range o.Items {
		item := &o.Items[i]
		p, ok := byID[item.ProductID]
		if !ok {
			return fmt.Errorf("%w: product %d", domain.ErrProductUnavailable, item.ProductID)
		}
		if err := p.Available(item.Quantity); err != nil {
			return fmt.Errorf("%w: %s", err, p.Name)
		}
		item.Price = p.Price
		item.ProductName = p.Name
		total += item.Total()
	}
	o.TotalAmount = total
	if o.Status == "" {
		o.Status = domain.OrderPending
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, status, total_amount, shipping_address, phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`,
		o.UserID, o.Status, o.TotalAmount, o.ShippingAddress, o.Phone, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("order_items", "order_id", "product_id", "quantity", "price"))
	if err != nil {
		return err
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		if _, err := stmt.ExecContext(ctx, o.ID, o.Items[i].ProductID, o.Items[i].Quantity, o.Items[i].Price); err != nil {
			_ = stmt.Close()
			return mapError(err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return mapError(err)
	}
	if err := stmt.Close(); err != nil {
		return err
	}

	for _, item := range o.Items {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = NOW() WHERE id = $1`,
			item.ProductID, item.Quantity); err != nil {
			return mapError(err)
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.price
		FROM order_items i JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1 ORDER BY i.id`, id)
	if err != nil {
		return nil, err
	}
	o.Items, err = collect(rows, func(s scanner) (domain.OrderItem, error) {
		var item domain.OrderItem
		err := s.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price)
		return item, err
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, page domain.Page) (domain.Paginated[domain.Order], error) {
	return r.List(ctx, domain.OrderFilter{UserID: userID, Page: page})
}

func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) (domain.Paginated[domain.Order], error) {
	where := ` FROM orders WHERE ($1 = '' OR status = $1) AND ($2 = 0 OR user_id = $2)`
	args := []any{string(filter.Status), filter.UserID}

	total, err := count(ctx, r.db, `SELECT COUNT(*)`+where, args...)
	if err != nil {
		return domain.Paginated[domain.Order]{}, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+where+
		` ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		append(args, filter.Page.Size, filter.Page.Offset())...)
	if err != nil {
		return domain.Paginated[domain.Order]{}, err
	}
	orders, err := collect(rows, scanOrder)
	if err != nil {
		return domain.Paginated[domain.Order]{}, err
	}
	return domain.NewPaginated(orders, filter.Page, total), nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status))
}
