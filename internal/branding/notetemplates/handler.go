package notetemplates

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	brandingshared "github.com/vellum-suite/vellum/internal/branding/shared"
	"github.com/vellum-suite/vellum/internal/platform/httpx"
	"github.com/vellum-suite/vellum/internal/rbac"
	"github.com/vellum-suite/vellum/internal/shared"
	"github.com/vellum-suite/vellum/internal/view"
)

// Handler exposes note template management over HTTP.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	rbac      rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, rbac: rbac}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = brandingshared.DefaultPage
	}
	if limit < 1 {
		limit = brandingshared.DefaultLimit
	}

	filters := brandingshared.ListFilters{
		Page:   page,
		Limit:  limit,
		Search: r.URL.Query().Get("search"),
		Type:   r.URL.Query().Get("type"),
	}

	companyID := currentCompanyID(r)
	templates, total, err := h.service.List(r.Context(), companyID, filters)
	if err != nil {
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		var verr *shared.ValidationError
		if errors.As(err, &verr) {
			h.redirectWithFlash(w, r, "/branding/note-templates", "error", shared.UserSafeMessage(err))
			return
		}
		h.logger.Error("list note templates failed", slog.Any("error", err))
		http.Error(w, "Failed to load note templates", http.StatusInternalServerError)
		return
	}

	pagination := shared.NewPagination(page, limit, total)
	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "", pagination.Describe(templates))
		return
	}
	h.render(w, r, "pages/branding/note_templates_list.html", map[string]any{
		"Templates":  templates,
		"Types":      Types(),
		"Filters":    filters,
		"Pagination": pagination,
	}, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/branding/note_template_form.html", map[string]any{
		"Errors":     map[string]string{},
		"Template":   nil,
		"Types":      Types(),
		"FormAction": "/branding/note-templates",
	}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := parseInput(r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	template, err := h.service.Create(r.Context(), currentCompanyID(r), input)
	if err != nil {
		h.logger.Error("create note template failed", slog.Any("error", err))
		h.respondFormError(w, r, err, map[string]any{"Template": input, "Types": Types(), "FormAction": "/branding/note-templates"})
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusCreated, "Template created successfully", template)
		return
	}
	h.redirectWithFlash(w, r, "/branding/note-templates", "success", "Template created successfully")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid template ID", http.StatusBadRequest)
		return
	}
	template, err := h.service.Get(r.Context(), currentCompanyID(r), id)
	if err != nil {
		h.logger.Error("get note template failed", slog.Any("error", err), slog.Int64("id", id))
		http.Error(w, "Template not found", http.StatusNotFound)
		return
	}
	h.render(w, r, "pages/branding/note_template_form.html", map[string]any{
		"Errors":     map[string]string{},
		"Template":   template,
		"Types":      Types(),
		"FormAction": fmt.Sprintf("/branding/note-templates/%d", id),
	}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid template ID", http.StatusBadRequest)
		return
	}
	input, err := parseInput(r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	template, err := h.service.Update(r.Context(), currentCompanyID(r), id, input)
	if err != nil {
		h.logger.Error("update note template failed", slog.Any("error", err), slog.Int64("id", id))
		h.respondFormError(w, r, err, map[string]any{"Template": input, "Types": Types(), "FormAction": fmt.Sprintf("/branding/note-templates/%d", id)})
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Template updated successfully", template)
		return
	}
	h.redirectWithFlash(w, r, "/branding/note-templates", "success", "Template updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid template ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), currentCompanyID(r), id); err != nil {
		h.logger.Error("delete note template failed", slog.Any("error", err), slog.Int64("id", id))
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		h.redirectWithFlash(w, r, "/branding/note-templates", "error", shared.UserSafeMessage(err))
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Template deleted successfully", nil)
		return
	}
	h.redirectWithFlash(w, r, "/branding/note-templates", "success", "Template deleted successfully")
}

func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid template ID", http.StatusBadRequest)
		return
	}

	if err := h.service.SetDefault(r.Context(), currentCompanyID(r), id); err != nil {
		h.logger.Error("set default note template failed", slog.Any("error", err), slog.Int64("id", id))
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		h.redirectWithFlash(w, r, "/branding/note-templates", "error", shared.UserSafeMessage(err))
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Default template updated", nil)
		return
	}
	h.redirectWithFlash(w, r, "/branding/note-templates", "success", "Default template updated")
}

// GetByType serves the document builder; the response is always JSON.
func (h *Handler) GetByType(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	listing, err := h.service.GetByType(r.Context(), currentCompanyID(r), typ)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", listing)
}

func parseInput(r *http.Request) (NoteTemplateInput, error) {
	if err := r.ParseForm(); err != nil {
		return NoteTemplateInput{}, err
	}
	input := NoteTemplateInput{
		Type:      r.PostFormValue("type"),
		Name:      r.PostFormValue("name"),
		Content:   r.PostFormValue("content"),
		IsDefault: formBool(r, "is_default", false),
		IsActive:  formBool(r, "is_active", true),
	}
	return input, nil
}

// formBool coerces checkbox-style fields. An absent field keeps the
// fallback, so programmatic callers that omit is_active still get an
// active template. The form ships a hidden "0" companion next to the
// checkbox; any submitted value that reads as checked wins over it.
func formBool(r *http.Request, field string, fallback bool) bool {
	values, ok := r.PostForm[field]
	if !ok {
		return fallback
	}
	for _, raw := range values {
		if raw == "on" {
			return true
		}
		if v, err := strconv.ParseBool(raw); err == nil && v {
			return true
		}
	}
	return false
}

func (h *Handler) respondFormError(w http.ResponseWriter, r *http.Request, err error, data map[string]any) {
	if httpx.WantsJSON(r) {
		httpx.RespondError(w, err)
		return
	}
	errs := map[string]string{"general": shared.UserSafeMessage(err)}
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		errs = verr.Fields
	}
	data["Errors"] = errs
	h.render(w, r, "pages/branding/note_template_form.html", data, http.StatusBadRequest)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Note Templates",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", template))
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func currentCompanyID(r *http.Request) int64 {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0
	}
	return sess.Company()
}
