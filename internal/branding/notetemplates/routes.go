package notetemplates

import (
	"github.com/go-chi/chi/v5"

	"github.com/vellum-suite/vellum/internal/shared"
)

// MountRoutes attaches note template routes under the branding namespace.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermNoteTemplateView, shared.PermNoteTemplateEdit))
		r.Get("/note-templates", h.List)
		r.Get("/note-templates/type/{type}", h.GetByType)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermNoteTemplateEdit))
		r.Get("/note-templates/new", h.Form)
		r.Post("/note-templates", h.Create)
		r.Get("/note-templates/{id}/edit", h.EditForm)
		r.Post("/note-templates/{id}", h.Update)
		r.Post("/note-templates/{id}/delete", h.Delete)
		r.Post("/note-templates/{id}/default", h.SetDefault)
	})
}
