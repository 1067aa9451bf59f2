package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order represents a placed order. Items are populated only by detail lookups.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	Status          OrderStatus `json:"status"`
	TotalAmount     Money       `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	Phone           string      `json:"phone,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is one line of an order, priced at the time of purchase.
type OrderItem struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	Price       Money  `json:"price"`
}

func (i OrderItem) Total() Money { return i.Price.Mul(i.Quantity) }

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Status OrderStatus
	UserID int64
	Page   Page
}
