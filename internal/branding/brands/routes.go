package brands

import (
	"github.com/go-chi/chi/v5"

	"github.com/vellum-suite/vellum/internal/shared"
)

// MountRoutes attaches brand routes under the branding namespace.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermBrandView, shared.PermBrandEdit))
		r.Get("/brands", h.List)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermBrandEdit))
		r.Get("/brands/new", h.Form)
		r.Post("/brands", h.Create)
		r.Get("/brands/{id}/edit", h.EditForm)
		r.Post("/brands/{id}", h.Update)
		r.Post("/brands/{id}/delete", h.Delete)
		r.Post("/brands/{id}/default", h.SetDefault)
		r.Post("/brands/{id}/toggle", h.ToggleActive)
	})
}
