package categories

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

// Handler exposes service category management over HTTP.
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
	filters := filtersFromQuery(r)
	companyID := currentCompanyID(r)
	categories, total, err := h.service.List(r.Context(), companyID, filters)
	if err != nil {
		h.logger.Error("list categories failed", slog.Any("error", err))
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		http.Error(w, "Failed to load categories", http.StatusInternalServerError)
		return
	}

	pagination := shared.NewPagination(filters.Page, filters.Limit, total)
	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "", pagination.Describe(categories))
		return
	}
	h.render(w, r, "pages/branding/categories_list.html", map[string]any{
		"Categories": categories,
		"Filters":    filters,
		"Pagination": pagination,
	}, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/branding/category_form.html", map[string]any{
		"Errors":     map[string]string{},
		"Category":   nil,
		"FormAction": "/branding/categories",
	}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := parseInput(r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	category, err := h.service.Create(r.Context(), currentCompanyID(r), input)
	if err != nil {
		h.logError(r, "create category failed", err)
		h.respondFormError(w, r, err, map[string]any{"Category": input, "FormAction": "/branding/categories"})
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusCreated, "Category created successfully", category)
		return
	}
	h.redirectWithFlash(w, r, "/branding/categories", "success", "Category created successfully")
}

// QuickAdd serves the inline editor in the service item form. Always JSON.
func (h *Handler) QuickAdd(w http.ResponseWriter, r *http.Request) {
	var input QuickAddInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		input.Name = r.PostFormValue("name")
	}

	result, err := h.service.QuickAdd(r.Context(), currentCompanyID(r), input)
	if err != nil {
		h.logError(r, "quick add category failed", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Category created successfully", result)
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}
	category, err := h.service.Get(r.Context(), currentCompanyID(r), id)
	if err != nil {
		h.logger.Error("get category failed", slog.Any("error", err), slog.Int64("id", id))
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}
	h.render(w, r, "pages/branding/category_form.html", map[string]any{
		"Errors":     map[string]string{},
		"Category":   category,
		"FormAction": fmt.Sprintf("/branding/categories/%d", id),
	}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}
	input, err := parseInput(r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	category, err := h.service.Update(r.Context(), currentCompanyID(r), id, input)
	if err != nil {
		h.logError(r, "update category failed", err)
		h.respondFormError(w, r, err, map[string]any{"Category": input, "FormAction": fmt.Sprintf("/branding/categories/%d", id)})
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Category updated successfully", category)
		return
	}
	h.redirectWithFlash(w, r, "/branding/categories", "success", "Category updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), currentCompanyID(r), id); err != nil {
		h.logError(r, "delete category failed", err)
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		h.redirectWithFlash(w, r, "/branding/categories", "error", shared.UserSafeMessage(err))
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Category deleted successfully", nil)
		return
	}
	h.redirectWithFlash(w, r, "/branding/categories", "success", "Category deleted successfully")
}

func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	category, err := h.service.ToggleActive(r.Context(), currentCompanyID(r), id)
	if err != nil {
		h.logError(r, "toggle category failed", err)
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		h.redirectWithFlash(w, r, "/branding/categories", "error", shared.UserSafeMessage(err))
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Category status updated", category)
		return
	}
	h.redirectWithFlash(w, r, "/branding/categories", "success", "Category status updated")
}

func filtersFromQuery(r *http.Request) brandingshared.ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = brandingshared.DefaultPage
	}
	if limit < 1 {
		limit = brandingshared.DefaultLimit
	}

	filters := brandingshared.ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  q.Get("search"),
		SortBy:  q.Get("sort_by"),
		SortDir: q.Get("sort_dir"),
	}
	if raw := q.Get("is_active"); raw != "" {
		active := raw == "1" || raw == "true"
		filters.IsActive = &active
	}
	return filters
}

func parseInput(r *http.Request) (CategoryInput, error) {
	if err := r.ParseForm(); err != nil {
		return CategoryInput{}, err
	}
	sortOrder, _ := strconv.Atoi(r.PostFormValue("sort_order"))
	input := CategoryInput{
		Name:      r.PostFormValue("name"),
		Slug:      r.PostFormValue("slug"),
		Color:     r.PostFormValue("color"),
		SortOrder: sortOrder,
		IsActive:  r.PostFormValue("is_active") == "1" || r.PostFormValue("is_active") == "on",
	}
	if desc := r.PostFormValue("description"); desc != "" {
		input.Description = &desc
	}
	if icon := r.PostFormValue("icon"); icon != "" {
		input.Icon = &icon
	}
	return input, nil
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
	h.render(w, r, "pages/branding/category_form.html", data, http.StatusBadRequest)
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	sess := shared.SessionFromContext(r.Context())
	actor := int64(0)
	if sess != nil {
		actor = sess.UserID()
	}
	h.logger.Error(msg, slog.Any("error", err), slog.Int64("user_id", actor))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Service Categories",
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
