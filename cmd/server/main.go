package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
	"github.com/iliyamo/hotel-bidding/internal/config"
	"github.com/iliyamo/hotel-bidding/internal/database"
	"github.com/iliyamo/hotel-bidding/internal/handler"
	"github.com/iliyamo/hotel-bidding/internal/logger"
	"github.com/iliyamo/hotel-bidding/internal/metrics"
	"github.com/iliyamo/hotel-bidding/internal/middleware"
	"github.com/iliyamo/hotel-bidding/internal/queue"
	"github.com/iliyamo/hotel-bidding/internal/repository"
	"github.com/iliyamo/hotel-bidding/internal/router"
	"github.com/iliyamo/hotel-bidding/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("prod").Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	engine, err := allocation.New(cfg.Inventory)
	if err != nil {
		log.Error("engine init failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := service.Deps{Engine: engine, Log: log}
	var pinger handler.Pinger

	if cfg.DB.Enabled() {
		db, err := database.Open(cfg.DB)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Error("migrations failed", "err", err)
			os.Exit(1)
		}
		log.Info("db connected, migrations applied")
		deps.Store = repository.NewBidRepo(db)
		pinger = db
	}

	if cfg.RabbitMQ.Enabled {
		deps.Publisher = service.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		consumer := &queue.Consumer{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue, LogPath: cfg.BidLogPath, Log: log}
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("bid consumer stopped", "err", err)
			}
		}()
		log.Info("bid events enabled", "queue", cfg.RabbitMQ.Queue, "bid_log", cfg.BidLogPath)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = metrics.New(reg)

	svc := service.NewBidService(deps)

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Warn("redis unavailable; rate limiting and caching disabled", "addr", cfg.Redis.Addr)
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, pinger, reg)
	router.RegisterBids(e, handler.NewBidHandler(svc),
		middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
		middleware.NewRedisCache(cfg.Cache, rdb),
	)

	addr := ":" + cfg.Port
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			stop()
		}
	}()
	log.Info("listening", "addr", addr, "env", cfg.Env, "rooms", engine.TotalRemaining())

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = e.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete", "rooms_left", engine.TotalRemaining())
}
