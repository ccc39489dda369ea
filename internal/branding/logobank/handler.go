package logobank

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	brandingshared "github.com/vellum-suite/vellum/internal/branding/shared"
	"github.com/vellum-suite/vellum/internal/platform/httpx"
	"github.com/vellum-suite/vellum/internal/rbac"
	"github.com/vellum-suite/vellum/internal/shared"
	"github.com/vellum-suite/vellum/internal/view"
)

const maxUploadBytes = 5 << 20

// Handler exposes the logo bank over HTTP.
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
	logos, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.logger.Error("list logos failed", slog.Any("error", err))
		if httpx.WantsJSON(r) {
			httpx.RespondError(w, err)
			return
		}
		http.Error(w, "Failed to load logo bank", http.StatusInternalServerError)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "", logos)
		return
	}
	h.render(w, r, "pages/branding/logo_bank.html", map[string]any{
		"Logos": logos,
	}, http.StatusOK)
}

// ListForClient serves the compact listing the document composer embeds.
// Always JSON.
func (h *Handler) ListForClient(w http.ResponseWriter, r *http.Request) {
	logos, err := h.service.ListForClient(r.Context(), currentCompanyID(r))
	if err != nil {
		h.logger.Error("list client logos failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", logos)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, upload, err := h.parseForm(r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if upload == nil {
		h.respondError(w, r, shared.NewValidationError("file", "an image file is required"))
		return
	}

	logo, err := h.service.Create(r.Context(), currentCompanyID(r), input, *upload)
	if err != nil {
		h.logError(r, "create logo failed", err)
		h.respondError(w, r, err)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusCreated, "Logo uploaded successfully", logo)
		return
	}
	h.redirectWithFlash(w, r, "/branding/logos", "success", "Logo uploaded successfully")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid logo ID", http.StatusBadRequest)
		return
	}
	input, _, err := h.parseForm(r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	logo, err := h.service.Update(r.Context(), currentCompanyID(r), id, input)
	if err != nil {
		h.logError(r, "update logo failed", err)
		h.respondError(w, r, err)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Logo updated successfully", logo)
		return
	}
	h.redirectWithFlash(w, r, "/branding/logos", "success", "Logo updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid logo ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), currentCompanyID(r), id); err != nil {
		h.logError(r, "delete logo failed", err)
		h.respondError(w, r, err)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Logo deleted successfully", nil)
		return
	}
	h.redirectWithFlash(w, r, "/branding/logos", "success", "Logo deleted successfully")
}

func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid logo ID", http.StatusBadRequest)
		return
	}

	if err := h.service.SetDefault(r.Context(), currentCompanyID(r), id); err != nil {
		h.logError(r, "set default logo failed", err)
		h.respondError(w, r, err)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.OK(w, http.StatusOK, "Default logo updated", nil)
		return
	}
	h.redirectWithFlash(w, r, "/branding/logos", "success", "Default logo updated")
}

// ServeFile streams the logo image. Content type comes from the stored
// extension, never from client input.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid logo ID", http.StatusBadRequest)
		return
	}

	served, err := h.service.Serve(r.Context(), currentCompanyID(r), id)
	if err != nil {
		h.logError(r, "serve logo failed", err)
		http.Error(w, "Logo not found", httpx.StatusFor(err))
		return
	}

	f, err := os.Open(served.AbsPath)
	if err != nil {
		h.logError(r, "open logo file failed", err)
		http.Error(w, "Logo not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", served.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	http.ServeContent(w, r, served.Name, served.ModTime, f)
}

func (h *Handler) parseForm(r *http.Request) (LogoInput, *brandingshared.Upload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return LogoInput{}, nil, err
		}
		if err := r.ParseForm(); err != nil {
			return LogoInput{}, nil, err
		}
	}

	input := LogoInput{
		Name:      r.PostFormValue("name"),
		IsDefault: r.PostFormValue("is_default") == "1" || r.PostFormValue("is_default") == "on",
	}
	if notes := r.PostFormValue("notes"); notes != "" {
		input.Notes = &notes
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return input, nil, nil
		}
		return LogoInput{}, nil, err
	}
	return input, &brandingshared.Upload{Filename: header.Filename, Size: header.Size, Content: file}, nil
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.WantsJSON(r) {
		httpx.RespondError(w, err)
		return
	}
	h.redirectWithFlash(w, r, "/branding/logos", "error", shared.UserSafeMessage(err))
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
		Title:       "Logo Bank",
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
