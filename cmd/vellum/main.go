package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/vellum-suite/vellum/internal/app"
	"github.com/vellum-suite/vellum/internal/auth"
	"github.com/vellum-suite/vellum/internal/branding/brands"
	"github.com/vellum-suite/vellum/internal/branding/categories"
	"github.com/vellum-suite/vellum/internal/branding/logobank"
	"github.com/vellum-suite/vellum/internal/branding/notetemplates"
	"github.com/vellum-suite/vellum/internal/platform/db"
	"github.com/vellum-suite/vellum/internal/platform/storage"
	"github.com/vellum-suite/vellum/internal/rbac"
	"github.com/vellum-suite/vellum/internal/shared"
	"github.com/vellum-suite/vellum/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "vellum_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	disk, err := storage.NewDisk(cfg.StorageRoot)
	if err != nil {
		logger.Error("prepare storage", slog.Any("error", err))
		os.Exit(1)
	}

	rbacService := rbac.NewService(dbpool)
	if err := rbacService.EnsurePermissions(ctx, shared.BrandingScopes()); err != nil {
		logger.Warn("seed branding permissions", slog.Any("error", err))
	}
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	brandRepo := brands.NewRepository(dbpool)
	brandService := brands.NewService(logger, brandRepo, disk)
	brandHandler := brands.NewHandler(logger, brandService, templates, csrfManager, rbacMiddleware)

	templateRepo := notetemplates.NewRepository(dbpool)
	templateService := notetemplates.NewService(templateRepo)
	templateHandler := notetemplates.NewHandler(logger, templateService, templates, csrfManager, rbacMiddleware)

	logoRepo := logobank.NewRepository(dbpool)
	logoService := logobank.NewService(logger, logoRepo, disk)
	logoHandler := logobank.NewHandler(logger, logoService, templates, csrfManager, rbacMiddleware)

	categoryRepo := categories.NewRepository(dbpool)
	categoryService := categories.NewService(logger, categoryRepo)
	categoryHandler := categories.NewHandler(logger, categoryService, templates, csrfManager, rbacMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		SessionManager:      sessionManager,
		CSRFManager:         csrfManager,
		AuthHandler:         authHandler,
		BrandHandler:        brandHandler,
		NoteTemplateHandler: templateHandler,
		LogoHandler:         logoHandler,
		CategoryHandler:     categoryHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
