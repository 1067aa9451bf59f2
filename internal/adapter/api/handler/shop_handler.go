package handler

import (
	"net/http"
	"strconv"

	"github.com/V4T54L/leatherstore/internal/adapter/api/middleware"
	"github.com/V4T54L/leatherstore/internal/usecase"
)

// ShopHandler serves the cart, checkout and the customer's order history.
type ShopHandler struct {
	cart   *usecase.CartUseCase
	orders *usecase.OrderUseCase
	rs     *Responder
}

func NewShopHandler(cart *usecase.CartUseCase, orders *usecase.OrderUseCase, rs *Responder) *ShopHandler {
	return &ShopHandler{cart: cart, orders: orders, rs: rs}
}

func (h *ShopHandler) Cart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.View(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, view)
}

type cartLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *ShopHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.cart.Add(r.Context(), middleware.SessionIDFromContext(r.Context()), req.ProductID, req.Quantity); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.Cart(w, r)
}

func (h *ShopHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "productID")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.cart.Remove(r.Context(), middleware.SessionIDFromContext(r.Context()), id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.Cart(w, r)
}

// UpdateCart takes a product id to quantity object, e.g. {"3": 2, "7": 0}.
func (h *ShopHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	var req map[string]int
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	quantities := make(map[int64]int, len(req))
	for key, q := range req {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			h.rs.message(w, r, http.StatusBadRequest, "unknown product id "+strconv.Quote(key))
			return
		}
		quantities[id] = q
	}
	if err := h.cart.Update(r.Context(), middleware.SessionIDFromContext(r.Context()), quantities); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.Cart(w, r)
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	Phone           string `json:"phone"`
	Notes           string `json:"notes"`
}

func (h *ShopHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	order, err := h.orders.Checkout(r.Context(), middleware.SessionIDFromContext(r.Context()), currentUser(r), usecase.CheckoutInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusCreated, order)
}

func (h *ShopHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.Orders(r.Context(), currentUser(r).ID, pageParam(r))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, orders)
}

func (h *ShopHandler) Order(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	order, err := h.orders.Order(r.Context(), currentUser(r), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, order)
}
