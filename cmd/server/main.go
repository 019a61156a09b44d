package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/joeyedi1/eclandingpage/internal/api"
	"github.com/joeyedi1/eclandingpage/internal/api/handler"
	apimw "github.com/joeyedi1/eclandingpage/internal/api/middleware"
	"github.com/joeyedi1/eclandingpage/internal/campaign"
	"github.com/joeyedi1/eclandingpage/internal/config"
	"github.com/joeyedi1/eclandingpage/internal/db"
	"github.com/joeyedi1/eclandingpage/internal/metrics"
	"github.com/joeyedi1/eclandingpage/internal/notify"
	"github.com/joeyedi1/eclandingpage/internal/queue"
	"github.com/joeyedi1/eclandingpage/internal/ratelimiter"
	"github.com/joeyedi1/eclandingpage/internal/repository"
	"github.com/joeyedi1/eclandingpage/internal/service"
	"github.com/joeyedi1/eclandingpage/internal/worker"
)

func main() {
	// ---- configuration ----
	// The logger format depends on config, so a load error is reported once
	// the logger exists.
	cfg, cfgErr := config.Load()
	var logFormat string
	if cfg != nil {
		logFormat = cfg.LogFormat
	}

	logger, err := newLogger(logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if cfgErr != nil {
		logger.Fatal("failed to load config", zap.Error(cfgErr))
	}

	camp, err := campaign.Load(cfg.CampaignFile)
	if err != nil {
		logger.Fatal("failed to load campaign", zap.String("file", cfg.CampaignFile), zap.Error(err))
	}
	logger.Info("campaign loaded",
		zap.String("project", camp.Project.Name),
		zap.Int("stages", camp.Schedule().Len()),
	)

	// ---- lead store ----
	ctx := context.Background()
	var (
		repo   repository.LeadRepository
		pinger handler.Pinger
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := db.Migrate(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("database migrations applied")
		repo = repository.NewPgLeadRepository(pool)
		pinger = pool
	} else {
		logger.Warn("DATABASE_URL not set, leads are kept in memory only")
		repo = repository.NewMemoryLeadRepository()
	}

	// ---- dispatch ----
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Per-channel deadlines come from the dispatcher; the client timeout is a backstop.
	httpClient := &http.Client{Timeout: cfg.ChannelTimeout + time.Second}
	channels := notify.BuildChannels(cfg, camp.Project.Name, httpClient)
	limiter := ratelimiter.New(cfg.ChannelRateLimit,
		notify.ChannelTelegram, notify.ChannelTwilio, notify.ChannelCallMeBot)

	dispatcher := notify.NewDispatcher(channels, notify.Options{
		Timeout:  cfg.ChannelTimeout,
		Limiter:  limiter,
		Location: cfg.Location(),
		Hooks:    notify.Hooks{OnOutcome: m.OutcomeHook()},
	}, logger.Named("dispatch"))

	active := dispatcher.ActiveCount()
	m.ActiveChannels.Set(float64(active))
	for _, ch := range channels {
		logger.Info("channel configured", zap.String("channel", ch.Name()), zap.Bool("active", ch.Active()))
	}
	if active == 0 {
		logger.Warn("no notification channel has credentials; leads will only be stored")
	}

	// ---- service & worker pool ----
	var q *queue.DispatchQueue
	if cfg.DispatchMode == config.DispatchAsync {
		q = queue.New(cfg.DispatchQueueSize)
	}
	svc := service.NewLeadService(repo, dispatcher, service.Options{
		Queue: q,
		Hooks: service.Hooks{OnSubmit: m.SubmitHook()},
	}, logger.Named("leads"))

	// Context for all background goroutines; cancelled on shutdown.
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	var workers *worker.Pool
	if q != nil {
		workers = worker.NewPool(cfg.DispatchWorkers, q, svc, logger.Named("worker"), worker.MetricHooks{
			OnDelivered: m.DeliveredHook(),
			OnDepth:     m.QueueDepthHook(),
		})
		workers.Start(workerCtx)
		logger.Info("async dispatch enabled",
			zap.Int("workers", cfg.DispatchWorkers), zap.Int("queue_size", cfg.DispatchQueueSize))
	}

	// ---- HTTP server ----
	router := api.NewRouter(api.Deps{
		Service:        svc,
		Campaign:       camp,
		Queue:          q,
		DB:             pinger,
		Gatherer:       reg,
		SubmitLimiter:  apimw.NewIPRateLimiter(cfg.SubmitRateLimit, cfg.SubmitRateBurst),
		AdminToken:     cfg.AdminToken,
		ActiveChannels: active,
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("dispatch_mode", cfg.DispatchMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests; in-flight inline dispatches finish.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Drain queued leads, cancelling whatever is left at the deadline.
	if workers != nil {
		if err := workers.Shutdown(shutdownCtx, cancelWorkers); err != nil {
			logger.Error("dispatch queue not fully drained", zap.Error(err), zap.Int("remaining", q.Depth()))
		}
	}

	logger.Info("server stopped cleanly")
}

// newLogger returns a development logger for LOG_FORMAT=console and a JSON
// production logger otherwise.
func newLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
