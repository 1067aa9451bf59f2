package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/V4T54L/leatherstore/internal/adapter/api/handler"
	"github.com/V4T54L/leatherstore/internal/adapter/api/middleware"
	"github.com/V4T54L/leatherstore/internal/domain"
)

// adminRoutes mounts the back office. Managers see everything except user accounts,
// site content blocks and hero slides, which are admin only.
func adminRoutes(h *handler.AdminHandler, rs *handler.Responder) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(middleware.RequireRole(rs, domain.RoleAdmin, domain.RoleManager))

		r.Get("/", h.Dashboard)

		// Catalog
		r.Get("/categories", h.ListCategories)
		r.Post("/categories", h.CreateCategory)
		r.Put("/categories/{id}", h.UpdateCategory)
		r.Delete("/categories/{id}", h.DeleteCategory)

		r.Get("/products", h.ListProducts)
		r.Post("/products", h.CreateProduct)
		r.Get("/products/{id}", h.GetProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)

		// Orders
		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{id}", h.GetOrder)
		r.Post("/orders/{id}/status", h.UpdateOrderStatus)

		// Blog
		r.Get("/blog", h.ListPosts)
		r.Post("/blog", h.CreatePost)
		r.Get("/blog/{id}", h.GetPost)
		r.Put("/blog/{id}", h.UpdatePost)
		r.Delete("/blog/{id}", h.DeletePost)

		// Contact messages
		r.Get("/messages", h.ListMessages)
		r.Get("/messages/{id}", h.ReadMessage)
		r.Delete("/messages/{id}", h.DeleteMessage)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(rs, domain.RoleAdmin))

			r.Get("/users", h.ListUsers)
			r.Get("/users/{id}", h.GetUser)
			r.Put("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.DeleteUser)

			r.Get("/content", h.ListContent)
			r.Put("/content/{key}", h.SaveContent)
			r.Delete("/content/{key}", h.DeleteContent)

			r.Get("/slides", h.ListHeroSlides)
			r.Post("/slides", h.CreateHeroSlide)
			r.Put("/slides/{id}", h.UpdateHeroSlide)
			r.Delete("/slides/{id}", h.DeleteHeroSlide)
		})
	}
}
