package handler

import (
	"net/http"
	"time"

	"github.com/V4T54L/leatherstore/internal/adapter/api/middleware"
	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/usecase"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// AuthHandler serves login, logout, registration and the profile page.
type AuthHandler struct {
	auth   *usecase.AuthUseCase
	rs     *Responder
	cookie CookieConfig
}

func NewAuthHandler(auth *usecase.AuthUseCase, rs *Responder, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, rs: rs, cookie: cookie}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	user, session, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.rs.JSON(w, r, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := middleware.SessionIDFromContext(r.Context()); id != "" {
		if err := h.auth.Logout(r.Context(), id); err != nil {
			h.rs.Error(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{Name: h.cookie.Name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: h.cookie.Secure})
	w.WriteHeader(http.StatusNoContent)
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	user, err := h.auth.Register(r.Context(), usecase.RegisterInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	h.rs.JSON(w, r, http.StatusOK, middleware.UserFromContext(r.Context()))
}

type profileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	current := middleware.UserFromContext(r.Context())
	user, err := h.auth.UpdateProfile(r.Context(), current.ID, usecase.ProfileInput(req))
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, r, http.StatusOK, user)
}

// currentUser is the authenticated user. Routes using it sit behind RequireAuth.
func currentUser(r *http.Request) *domain.User {
	return middleware.UserFromContext(r.Context())
}
