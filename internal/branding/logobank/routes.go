package logobank

import (
	"github.com/go-chi/chi/v5"

	"github.com/vellum-suite/vellum/internal/shared"
)

// MountRoutes attaches logo bank routes under the branding namespace.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermLogoView, shared.PermLogoEdit))
		r.Get("/logos", h.List)
		r.Get("/logos/client", h.ListForClient)
		r.Get("/logos/{id}/file", h.ServeFile)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermLogoEdit))
		r.Post("/logos", h.Create)
		r.Post("/logos/{id}", h.Update)
		r.Post("/logos/{id}/delete", h.Delete)
		r.Post("/logos/{id}/default", h.SetDefault)
	})
}
