package usecase

import (
	"context"
	"fmt"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

// CartUseCase manages the session cart.
type CartUseCase struct {
	carts    domain.CartRepository
	products domain.ProductRepository
	actions  *logger.ActionLogger
}

func NewCartUseCase(carts domain.CartRepository, products domain.ProductRepository, actions *logger.ActionLogger) *CartUseCase {
	return &CartUseCase{carts: carts, products: products, actions: actions}
}

// View prices the cart against the current catalog. Lines whose product no
// longer exists are omitted.
func (uc *CartUseCase) View(ctx context.Context, sessionID string) (*domain.CartView, error) {
	cart, err := uc.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return priceCart(ctx, uc.products, cart)
}

func priceCart(ctx context.Context, products domain.ProductRepository, cart domain.Cart) (*domain.CartView, error) {
	view := &domain.CartView{Lines: []domain.PricedLine{}}
	if cart.Empty() {
		return view, nil
	}
	byID, err := products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	for _, line := range cart.Lines {
		p, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		total := p.Price.Mul(line.Quantity)
		view.Lines = append(view.Lines, domain.PricedLine{Product: p, Quantity: line.Quantity, Total: total})
		view.Total += total
	}
	return view, nil
}

// Add puts quantity units of a product in the cart after checking stock for the
// combined quantity.
func (uc *CartUseCase) Add(ctx context.Context, sessionID string, productID int64, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	cart, err := uc.carts.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	action := logger.Action{
		Name:       ActionCartAdd,
		EntityType: EntityProduct,
		EntityID:   p.ID,
		Extra:      map[string]any{"quantity": quantity, "product_name": p.Name},
	}
	if err := p.Available(cart.Quantity(productID) + quantity); err != nil {
		uc.actions.Reject(ctx, action, refusalReason(err))
		return fmt.Errorf("%w: %s", err, p.Name)
	}

	return uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		cart.Add(productID, quantity)
		o.Set("cart_quantity", cart.Quantity(productID))
		return uc.carts.Save(ctx, sessionID, cart)
	})
}

func (uc *CartUseCase) Remove(ctx context.Context, sessionID string, productID int64) error {
	cart, err := uc.carts.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	return uc.actions.Perform(ctx, logger.Action{Name: ActionCartRemove, EntityType: EntityProduct, EntityID: productID},
		func(ctx context.Context, o *logger.Outcome) error {
			cart.Remove(productID)
			return uc.carts.Save(ctx, sessionID, cart)
		})
}

// Update sets the quantities of several lines at once. Quantities of zero or
// less remove the line. Nothing is saved if any product lacks stock.
func (uc *CartUseCase) Update(ctx context.Context, sessionID string, quantities map[int64]int) error {
	cart, err := uc.carts.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(quantities))
	for id, q := range quantities {
		if q > 0 {
			ids = append(ids, id)
		}
	}
	byID, err := uc.products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	action := logger.Action{Name: ActionCartUpdate, Extra: map[string]any{"lines": len(quantities)}}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			uc.actions.Reject(ctx, action, ReasonUnavailable)
			return fmt.Errorf("%w: product %d", domain.ErrProductUnavailable, id)
		}
		if err := p.Available(quantities[id]); err != nil {
			uc.actions.Reject(ctx, action, refusalReason(err))
			return fmt.Errorf("%w: %s", err, p.Name)
		}
	}

	return uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		for id, q := range quantities {
			cart.Set(id, q)
		}
		return uc.carts.Save(ctx, sessionID, cart)
	})
}
