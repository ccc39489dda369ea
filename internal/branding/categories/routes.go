package categories

import (
	"github.com/go-chi/chi/v5"

	"github.com/vellum-suite/vellum/internal/shared"
)

// MountRoutes attaches service category routes under the branding namespace.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermCategoryView, shared.PermCategoryEdit))
		r.Get("/categories", h.List)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermCategoryEdit))
		r.Get("/categories/new", h.Form)
		r.Post("/categories", h.Create)
		r.Post("/categories/quick-add", h.QuickAdd)
		r.Get("/categories/{id}/edit", h.EditForm)
		r.Post("/categories/{id}", h.Update)
		r.Post("/categories/{id}/delete", h.Delete)
		r.Post("/categories/{id}/toggle", h.ToggleActive)
	})
}
