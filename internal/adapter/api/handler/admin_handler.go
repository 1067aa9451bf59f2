package handler

import (
	"net/http"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/usecase"
)

// AdminHandler serves the back office.
type AdminHandler struct {
	admin *usecase.AdminUseCase
	rs    *Responder
}

func NewAdminHandler(admin *usecase.AdminUseCase, rs *Responder) *AdminHandler {
	return &AdminHandler{admin: admin, rs: rs}
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Dashboard(r.Context(), currentUser(r))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, stats)
}

// ListUsers handles GET /admin/users?role=&q=&page=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := h.admin.Users(r.Context(), domain.UserFilter{
		Role:   domain.Role(q.Get("role")),
		Search: q.Get("q"),
		Page:   domain.NewPage(pageParam(r), domain.AdminPageSize),
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, users)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	user, err := h.admin.User(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, user)
}

type userUpdateRequest struct {
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address"`
	Role     domain.Role `json:"role"`
	IsActive bool        `json:"is_active"`
	Password string      `json:"password"`
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req userUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	user, err := h.admin.UpdateUser(r.Context(), id, usecase.UserUpdate(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.admin.DeleteUser(r.Context(), currentUser(r).ID, id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /admin/categories
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.admin.Categories(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, categories)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	c, err := h.admin.CreateCategory(r.Context(), usecase.CategoryInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusCreated, c)
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	c, err := h.admin.UpdateCategory(r.Context(), id, usecase.CategoryInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, c)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.admin.DeleteCategory(r.Context(), id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts handles GET /admin/products?q=&page=
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.admin.Products(r.Context(), pageParam(r), r.URL.Query().Get("q"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, products)
}

func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	p, err := h.admin.Product(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, p)
}

type productRequest struct {
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	ShortDescription string       `json:"short_description"`
	Price            domain.Money `json:"price"`
	StockQuantity    int          `json:"stock_quantity"`
	ImageURL         string       `json:"image_url"`
	IsActive         bool         `json:"is_active"`
	CategoryID       int64        `json:"category_id"`
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	p, err := h.admin.CreateProduct(r.Context(), usecase.ProductInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	p, err := h.admin.UpdateProduct(r.Context(), id, usecase.ProductInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, p)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.admin.DeleteProduct(r.Context(), id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOrders handles GET /admin/orders?status=&page=
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.admin.Orders(r.Context(), domain.OrderFilter{
		Status: domain.OrderStatus(r.URL.Query().Get("status")),
		Page:   domain.NewPage(pageParam(r), domain.AdminPageSize),
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, orders)
}

func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	order, err := h.admin.Order(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, order)
}

type orderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// UpdateOrderStatus handles POST /admin/orders/{id}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req orderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.admin.UpdateOrderStatus(r.Context(), id, req.Status); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
