package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/usecase"
)

// CatalogHandler serves the public storefront.
type CatalogHandler struct {
	catalog *usecase.CatalogUseCase
	contact *usecase.ContactUseCase
	rs      *Responder
}

func NewCatalogHandler(catalog *usecase.CatalogUseCase, contact *usecase.ContactUseCase, rs *Responder) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, contact: contact, rs: rs}
}

func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.catalog.Home(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, home)
}

func (h *CatalogHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	sitemap, err := h.catalog.Sitemap(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, sitemap)
}

func (h *CatalogHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.catalog.Catalog(r.Context(), pageParam(r), q.Get("category"), q.Get("q"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, page)
}

func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, p)
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, categories)
}

func (h *CatalogHandler) Blog(w http.ResponseWriter, r *http.Request) {
	posts, err := h.catalog.Blog(r.Context(), pageParam(r))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, posts)
}

func (h *CatalogHandler) Post(w http.ResponseWriter, r *http.Request) {
	post, err := h.catalog.Post(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, post)
}

func (h *CatalogHandler) About(w http.ResponseWriter, r *http.Request) {
	block, err := h.catalog.About(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, block)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (h *CatalogHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	msg, err := h.contact.Submit(r.Context(), domain.ContactMessage{Name: req.Name, Email: req.Email, Phone: req.Phone, Message: req.Message})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusCreated, msg)
}
