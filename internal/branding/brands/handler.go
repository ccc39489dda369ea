package brands

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

const maxLogoUploadBytes = 5 << 20

// Handler exposes brand management over HTTP.
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
	companyID := currentCompanyID(r)
	brands, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list brands failed", slog.Any("error", err))
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		http.Error(w, "Failed to load brands", http.StatusInternalServerError)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "", brands)
		return
	}
	h.render(w, r, "pages/branding/brands_list.html", map[string]any{
		"Brands": brands,
	}, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/branding/brand_form.html", map[string]any{
		"Errors":     map[string]string{},
		"Brand":      nil,
		"FormAction": "/branding/brands",
	}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, logo, err := h.parseForm(r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	brand, err := h.service.Create(r.Context(), currentCompanyID(r), input, logo)
	if err != nil {
		h.logError(r, "create brand failed", err)
		h.respondFormError(w, r, "pages/branding/brand_form.html", err, map[string]any{"Brand": input, "FormAction": "/branding/brands"})
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusCreated, "Brand created successfully", brand)
		return
	}
	h.redirectWithFlash(w, r, "/branding/brands", "success", "Brand created successfully")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid brand ID", http.StatusBadRequest)
		return
	}
	brand, err := h.service.Get(r.Context(), currentCompanyID(r), id)
	if err != nil {
		h.logger.Error("get brand failed", slog.Any("error", err), slog.Int64("id", id))
		http.Error(w, "Brand not found", http.StatusNotFound)
		return
	}
	h.render(w, r, "pages/branding/brand_form.html", map[string]any{
		"Errors":     map[string]string{},
		"Brand":      brand,
		"FormAction": fmt.Sprintf("/branding/brands/%d", id),
	}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid brand ID", http.StatusBadRequest)
		return
	}
	input, logo, err := h.parseForm(r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	brand, err := h.service.Update(r.Context(), currentCompanyID(r), id, input, logo)
	if err != nil {
		h.logError(r, "update brand failed", err)
		h.respondFormError(w, r, "pages/branding/brand_form.html", err, map[string]any{"Brand": input, "FormAction": fmt.Sprintf("/branding/brands/%d", id)})
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Brand updated successfully", brand)
		return
	}
	h.redirectWithFlash(w, r, "/branding/brands", "success", "Brand updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid brand ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), currentCompanyID(r), id); err != nil {
		h.logError(r, "delete brand failed", err)
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		h.redirectWithFlash(w, r, "/branding/brands", "error", shared.UserSafeMessage(err))
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Brand deleted successfully", nil)
		return
	}
	h.redirectWithFlash(w, r, "/branding/brands", "success", "Brand deleted successfully")
}

func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid brand ID", http.StatusBadRequest)
		return
	}

	if err := h.service.SetDefault(r.Context(), currentCompanyID(r), id); err != nil {
		h.logError(r, "set default brand failed", err)
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		h.redirectWithFlash(w, r, "/branding/brands", "error", shared.UserSafeMessage(err))
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Default brand updated", nil)
		return
	}
	h.redirectWithFlash(w, r, "/branding/brands", "success", "Default brand updated")
}

func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid brand ID", http.StatusBadRequest)
		return
	}

	brand, err := h.service.ToggleActive(r.Context(), currentCompanyID(r), id)
	if err != nil {
		h.logError(r, "toggle brand failed", err)
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		h.redirectWithFlash(w, r, "/branding/brands", "error", shared.UserSafeMessage(err))
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Brand status updated", brand)
		return
	}
	h.redirectWithFlash(w, r, "/branding/brands", "success", "Brand status updated")
}

func (h *Handler) parseForm(r *http.Request) (BrandInput, *brandingshared.Upload, error) {
	if err := r.ParseMultipartForm(maxLogoUploadBytes); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return BrandInput{}, nil, err
		}
		if err := r.ParseForm(); err != nil {
			return BrandInput{}, nil, err
		}
	}

	input := BrandInput{
		Name:           r.PostFormValue("name"),
		PrimaryColor:   r.PostFormValue("primary_color"),
		SecondaryColor: r.PostFormValue("secondary_color"),
		IsActive:       r.PostFormValue("is_active") == "1" || r.PostFormValue("is_active") == "on",
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return input, nil, nil
		}
		return BrandInput{}, nil, err
	}
	return input, &brandingshared.Upload{Filename: header.Filename, Size: header.Size, Content: file}, nil
}

func (h *Handler) respondFormError(w http.ResponseWriter, r *http.Request, template string, err error, data map[string]any) {
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
	h.render(w, r, template, data, http.StatusBadRequest)
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
		Title:       "Brands",
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
