package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vellum-suite/vellum/internal/auth"
	"github.com/vellum-suite/vellum/internal/branding/brands"
	"github.com/vellum-suite/vellum/internal/branding/categories"
	"github.com/vellum-suite/vellum/internal/branding/logobank"
	"github.com/vellum-suite/vellum/internal/branding/notetemplates"
	"github.com/vellum-suite/vellum/internal/shared"
	"github.com/vellum-suite/vellum/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler         *auth.Handler
	BrandHandler        *brands.Handler
	NoteTemplateHandler *notetemplates.Handler
	LogoHandler         *logobank.Handler
	CategoryHandler     *categories.Handler
}

// NewRouter constructs the chi.Router with Vellum defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/branding/brands", http.StatusSeeOther)
	})

	r.Route("/branding", func(r chi.Router) {
		r.Use(requireLogin)
		params.BrandHandler.MountRoutes(r)
		params.NoteTemplateHandler.MountRoutes(r)
		params.LogoHandler.MountRoutes(r)
		params.CategoryHandler.MountRoutes(r)
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	if params.Config != nil && params.Config.StorageRoot != "" {
		uploads := http.StripPrefix("/storage/", http.FileServer(http.Dir(params.Config.StorageRoot)))
		r.With(requireLogin).Handle("/storage/*", staticCacheHandler(uploads))
	}

	return r
}

// staticCacheHandler wraps the asset file server with browser caching.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}

// requireLogin redirects anonymous visitors to the login form.
func requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
