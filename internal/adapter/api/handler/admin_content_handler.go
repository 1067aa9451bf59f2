package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/usecase"
)

func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.admin.Posts(r.Context(), pageParam(r))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, posts)
}

func (h *AdminHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	post, err := h.admin.Post(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, post)
}

type postRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Excerpt     string `json:"excerpt"`
	ImageURL    string `json:"image_url"`
	IsPublished bool   `json:"is_published"`
}

func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	post, err := h.admin.CreatePost(r.Context(), currentUser(r).ID, usecase.PostInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusCreated, post)
}

func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	post, err := h.admin.UpdatePost(r.Context(), id, usecase.PostInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, post)
}

func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.admin.DeletePost(r.Context(), id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListHeroSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.admin.HeroSlides(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, slides)
}

type slideRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
	LinkText string `json:"link_text"`
	Position int    `json:"position"`
	IsActive bool   `json:"is_active"`
}

func (h *AdminHandler) CreateHeroSlide(w http.ResponseWriter, r *http.Request) {
	var req slideRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	slide, err := h.admin.CreateHeroSlide(r.Context(), usecase.SlideInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusCreated, slide)
}

func (h *AdminHandler) UpdateHeroSlide(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	var req slideRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	slide, err := h.admin.UpdateHeroSlide(r.Context(), id, usecase.SlideInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, slide)
}

func (h *AdminHandler) DeleteHeroSlide(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.admin.DeleteHeroSlide(r.Context(), id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListContent handles GET /admin/content
func (h *AdminHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.admin.ContentBlocks(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, blocks)
}

type contentRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Section     string `json:"section"`
}

// SaveContent handles PUT /admin/content/{key}
func (h *AdminHandler) SaveContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	block, err := h.admin.SaveContent(r.Context(), currentUser(r).ID, domain.ContentBlock{
		Key:         chi.URLParam(r, "key"),
		Title:       req.Title,
		Content:     req.Content,
		ContentType: req.ContentType,
		Section:     req.Section,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, block)
}

func (h *AdminHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteContent(r.Context(), chi.URLParam(r, "key")); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMessages handles GET /admin/messages?page=
func (h *AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.admin.Messages(r.Context(), pageParam(r))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, messages)
}

// ReadMessage handles GET /admin/messages/{id}. Viewing marks it read.
func (h *AdminHandler) ReadMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	msg, err := h.admin.ReadMessage(r.Context(), id)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, msg)
}

func (h *AdminHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.admin.DeleteMessage(r.Context(), id); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
