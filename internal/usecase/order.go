package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

// OrderUseCase turns carts into orders and shows a customer their orders.
type OrderUseCase struct {
	orders   domain.OrderRepository
	products domain.ProductRepository
	carts    domain.CartRepository
	actions  *logger.ActionLogger
	logger   *slog.Logger
}

func NewOrderUseCase(orders domain.OrderRepository, products domain.ProductRepository, carts domain.CartRepository, actions *logger.ActionLogger, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		products: products,
		carts:    carts,
		actions:  actions,
		logger:   logger.With("component", "orders"),
	}
}

// CheckoutInput is the checkout form. An empty Phone falls back to the user's.
type CheckoutInput struct {
	ShippingAddress string
	Phone           string
	Notes           string
}

// Checkout validates the cart against current stock, places the order and
// clears the cart.
func (uc *OrderUseCase) Checkout(ctx context.Context, sessionID string, user *domain.User, in CheckoutInput) (*domain.Order, error) {
	cart, err := uc.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	action := logger.Action{Name: ActionOrderCreate}
	if cart.Empty() {
		uc.actions.Reject(ctx, action, ReasonEmptyCart)
		return nil, domain.ErrEmptyCart
	}

	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	if in.ShippingAddress == "" {
		return nil, invalid("shipping address is required")
	}

	byID, err := uc.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		p, ok := byID[line.ProductID]
		if !ok {
			uc.actions.Reject(ctx, action, ReasonUnavailable)
			return nil, fmt.Errorf("%w: product %d", domain.ErrProductUnavailable, line.ProductID)
		}
		if err := p.Available(line.Quantity); err != nil {
			uc.actions.Reject(ctx, action, refusalReason(err))
			return nil, fmt.Errorf("%w: %s", err, p.Name)
		}
		items = append(items, domain.OrderItem{ProductID: p.ID, Quantity: line.Quantity, Price: p.Price})
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		phone = user.Phone
	}
	order := &domain.Order{
		UserID:          user.ID,
		Status:          domain.OrderPending,
		ShippingAddress: in.ShippingAddress,
		Phone:           phone,
		Notes:           strings.TrimSpace(in.Notes),
		Items:           items,
	}

	err = uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		if err := uc.orders.Create(ctx, order); err != nil {
			return err
		}
		o.SetEntity(EntityOrder, order.ID)
		o.Set("items_count", len(order.Items))
		o.Set("total_amount", order.TotalAmount.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.carts.Clear(ctx, sessionID); err != nil {
		uc.logger.WarnContext(ctx, "failed to clear cart after checkout", "order_id", order.ID, "error", err)
	}
	return order, nil
}

// Orders lists the user's own orders.
func (uc *OrderUseCase) Orders(ctx context.Context, userID int64, page int) (domain.Paginated[domain.Order], error) {
	return uc.orders.ListByUser(ctx, userID, domain.NewPage(page, domain.AdminPageSize))
}

// Order returns an order to its owner or to staff.
func (uc *OrderUseCase) Order(ctx context.Context, viewer *domain.User, id int64) (*domain.Order, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != viewer.ID && !viewer.CanManageContent() {
		return nil, domain.ErrForbidden
	}
	return order, nil
}
