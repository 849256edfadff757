package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/motoquote/motoquote/internal/app"
	"github.com/motoquote/motoquote/internal/notify"
	"github.com/motoquote/motoquote/internal/observability"
	"github.com/motoquote/motoquote/internal/platform/db"
	"github.com/motoquote/motoquote/internal/quotations"
	"github.com/motoquote/motoquote/internal/render"
	"github.com/motoquote/motoquote/jobs"
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

	metrics := observability.NewMetrics()
	quotationsRepo := quotations.NewRepository(pool)

	store, err := render.NewStore(cfg.DocumentDir, cfg.DocBaseURL)
	if err != nil {
		logger.Error("init document store", slog.Any("error", err))
		os.Exit(1)
	}
	renderer, err := render.NewRenderer(render.NewClient(cfg.GotenbergURL), store)
	if err != nil {
		logger.Error("init renderer", slog.Any("error", err))
		os.Exit(1)
	}

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	renderJob := jobs.NewRenderJob(quotationsRepo, renderer, jobClient, metrics, logger)
	notifyJob := jobs.NewNotifyJob(quotationsRepo, &notify.LogSender{Logger: logger}, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeQuotationRender, Handler: renderJob.Handle},
			{Type: jobs.TaskTypeQuotationNotify, Handler: notifyJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
