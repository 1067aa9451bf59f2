package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/domain/mocks"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
	"github.com/V4T54L/leatherstore/internal/pkg/logger/loggertest"
)

type shopFixture struct {
	catalog  *mocks.MockCatalogRepository
	orders   *mocks.MockOrderRepository
	carts    *mocks.MockCartRepository
	cart     *CartUseCase
	checkout *OrderUseCase
	capture  *loggertest.Capture
}

func newShopFixture() shopFixture {
	actions, capture := newActions()
	catalog := mocks.NewMockCatalogRepository(leatherCategories(), leatherCatalog()...)
	f := shopFixture{
		catalog: catalog,
		orders:  mocks.NewMockOrderRepository(catalog),
		carts:   mocks.NewMockCartRepository(),
		capture: capture,
	}
	f.cart = NewCartUseCase(f.carts, catalog, actions)
	f.checkout = NewOrderUseCase(f.orders, catalog, f.carts, actions, discardLogger())
	return f
}

func customer() *domain.User {
	return &domain.User{ID: 42, Username: "erin", Role: domain.RoleUser, Phone: "+1 555 0100", IsActive: true}
}

func TestCheckout_PlacesOrderAndLogsTotals(t *testing.T) {
	f := newShopFixture()
	ctx := requestContext(&logger.Actor{ID: 42, Username: "erin", Role: "user"})

	require.NoError(t, f.cart.Add(ctx, "s1", 1, 2))
	require.NoError(t, f.cart.Add(ctx, "s1", 2, 1))
	require.NoError(t, f.cart.Add(ctx, "s1", 3, 1))

	view, err := f.cart.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1500000), view.Total)
	f.capture.Reset()

	order, err := f.checkout.Checkout(ctx, "s1", customer(), CheckoutInput{ShippingAddress: " 1 Tannery Row "})
	require.NoError(t, err)
	assert.Equal(t, "15000.00", order.TotalAmount.String())
	assert.Equal(t, "1 Tannery Row", order.ShippingAddress)
	assert.Equal(t, "+1 555 0100", order.Phone)
	assert.Equal(t, domain.OrderPending, order.Status)

	events := f.capture.Events()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, ActionOrderCreate, e.Action)
	assert.Equal(t, logger.StatusSuccess, e.Status)
	assert.Equal(t, &logger.Entity{Type: EntityOrder, ID: order.ID}, e.Entity)
	assert.Equal(t, 3, e.Extra["items_count"])
	assert.Equal(t, "15000.00", e.Extra["total_amount"])
	assert.Equal(t, "erin", e.Actor.Username)

	assert.Equal(t, 8, f.catalog.Products[1].StockQuantity)
	assert.Equal(t, 4, f.catalog.Products[2].StockQuantity)
	assert.Equal(t, 1, f.catalog.Products[3].StockQuantity)

	cart, _ := f.carts.Get(ctx, "s1")
	assert.True(t, cart.Empty())
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newShopFixture()

	_, err := f.checkout.Checkout(context.Background(), "s1", customer(), CheckoutInput{ShippingAddress: "x"})
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	events := f.capture.Events()
	require.Len(t, events, 1)
	assert.Equal(t, logger.LevelWarning, events[0].Level)
	assert.Equal(t, ReasonEmptyCart, events[0].Extra["reason"])
	assert.Empty(t, f.orders.Orders)
}

func TestCheckout_StockChangedSinceAdd(t *testing.T) {
	f := newShopFixture()
	ctx := context.Background()
	require.NoError(t, f.cart.Add(ctx, "s1", 3, 2))
	f.catalog.Products[3].StockQuantity = 1
	f.capture.Reset()

	_, err := f.checkout.Checkout(ctx, "s1", customer(), CheckoutInput{ShippingAddress: "x"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Bag")

	events := f.capture.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ReasonInsufficientStock, events[0].Extra["reason"])
	assert.Empty(t, f.orders.Orders)

	cart, _ := f.carts.Get(ctx, "s1")
	assert.False(t, cart.Empty(), "cart is kept after a refused checkout")
}

func TestCheckout_RequiresShippingAddress(t *testing.T) {
	f := newShopFixture()
	ctx := context.Background()
	require.NoError(t, f.cart.Add(ctx, "s1", 1, 1))
	f.capture.Reset()

	_, err := f.checkout.Checkout(ctx, "s1", customer(), CheckoutInput{ShippingAddress: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.capture.Events())
}

func TestCheckout_StorageFailure(t *testing.T) {
	f := newShopFixture()
	ctx := context.Background()
	require.NoError(t, f.cart.Add(ctx, "s1", 1, 1))
	f.capture.Reset()
	f.orders.CreateErr = errors.New("deadlock detected")

	_, err := f.checkout.Checkout(ctx, "s1", customer(), CheckoutInput{ShippingAddress: "x"})
	require.Error(t, err)

	events := f.capture.Events()
	require.Len(t, events, 1)
	assert.Equal(t, logger.LevelError, events[0].Level)
	assert.Contains(t, events[0].Exception, "deadlock detected")
	assert.Equal(t, 10, f.catalog.Products[1].StockQuantity)
}

func TestCart_AddRejectsBeyondStock(t *testing.T) {
	f := newShopFixture()
	ctx := context.Background()
	require.NoError(t, f.cart.Add(ctx, "s1", 2, 4))
	f.capture.Reset()

	err := f.cart.Add(ctx, "s1", 2, 2)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	events := f.capture.Events()
	require.Len(t, events, 1)
	assert.Equal(t, logger.LevelWarning, events[0].Level)
	assert.Equal(t, ReasonInsufficientStock, events[0].Extra["reason"])

	cart, _ := f.carts.Get(ctx, "s1")
	assert.Equal(t, 4, cart.Quantity(2))
}

func TestCart_AddInactiveProduct(t *testing.T) {
	f := newShopFixture()

	err := f.cart.Add(context.Background(), "s1", 4, 1)
	require.ErrorIs(t, err, domain.ErrProductUnavailable)
	require.Len(t, f.capture.Events(), 1)
	assert.Equal(t, ReasonUnavailable, f.capture.Events()[0].Extra["reason"])
}

func TestCart_UpdateAndRemove(t *testing.T) {
	f := newShopFixture()
	ctx := context.Background()
	require.NoError(t, f.cart.Add(ctx, "s1", 1, 1))
	require.NoError(t, f.cart.Add(ctx, "s1", 2, 1))

	err := f.cart.Update(ctx, "s1", map[int64]int{1: 3, 2: 99})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	cart, _ := f.carts.Get(ctx, "s1")
	assert.Equal(t, 1, cart.Quantity(1), "nothing is saved when any line lacks stock")

	require.NoError(t, f.cart.Update(ctx, "s1", map[int64]int{1: 3, 2: 0}))
	cart, _ = f.carts.Get(ctx, "s1")
	assert.Equal(t, 3, cart.Quantity(1))
	assert.Zero(t, cart.Quantity(2))

	require.NoError(t, f.cart.Remove(ctx, "s1", 1))
	cart, _ = f.carts.Get(ctx, "s1")
	assert.True(t, cart.Empty())
}

func TestCart_ViewSkipsVanishedProducts(t *testing.T) {
	f := newShopFixture()
	ctx := context.Background()
	require.NoError(t, f.cart.Add(ctx, "s1", 1, 2))
	require.NoError(t, f.cart.Add(ctx, "s1", 2, 1))
	delete(f.catalog.Products, 2)

	view, err := f.cart.View(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, domain.Money(500000), view.Total)
}

func TestOrder_VisibleToOwnerAndStaff(t *testing.T) {
	f := newShopFixture()
	ctx := context.Background()
	require.NoError(t, f.cart.Add(ctx, "s1", 1, 1))
	order, err := f.checkout.Checkout(ctx, "s1", customer(), CheckoutInput{ShippingAddress: "x"})
	require.NoError(t, err)

	_, err = f.checkout.Order(ctx, customer(), order.ID)
	require.NoError(t, err)
	_, err = f.checkout.Order(ctx, &domain.User{ID: 99, Role: domain.RoleManager}, order.ID)
	require.NoError(t, err)
	_, err = f.checkout.Order(ctx, &domain.User{ID: 99, Role: domain.RoleUser}, order.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	page, err := f.checkout.Orders(ctx, 42, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}
