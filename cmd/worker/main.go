package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/vellum-suite/vellum/internal/app"
	"github.com/vellum-suite/vellum/internal/platform/db"
	"github.com/vellum-suite/vellum/internal/platform/storage"
	"github.com/vellum-suite/vellum/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	disk, err := storage.NewDisk(cfg.StorageRoot)
	if err != nil {
		logger.Error("prepare storage", slog.Any("error", err))
		os.Exit(1)
	}

	sweeper := jobs.NewSweeper(logger, pool, disk)

	sweepTask, err := jobs.NewStorageSweepTask(jobs.StorageSweepPayload{})
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeStorageSweep, Handler: sweeper.HandleStorageSweepTask},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: sweepTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("configure worker", slog.Any("error", err))
		os.Exit(1)
	}

	// Catch-up sweep at startup: orphans left while the worker was down
	// should not wait for the nightly cron.
	client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("configure queue client", slog.Any("error", err))
		os.Exit(1)
	}
	if _, err := client.EnqueueStorageSweep(ctx, jobs.StorageSweepPayload{}); err != nil {
		logger.Warn("enqueue catch-up sweep", slog.Any("error", err))
	}
	if err := client.Close(); err != nil {
		logger.Warn("close queue client", slog.Any("error", err))
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
