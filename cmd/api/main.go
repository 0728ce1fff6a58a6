package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/brightbroom/booking-platform/internal/api/router"
	"github.com/brightbroom/booking-platform/internal/availability"
	"github.com/brightbroom/booking-platform/internal/booking"
	appconfig "github.com/brightbroom/booking-platform/internal/config"
	"github.com/brightbroom/booking-platform/internal/dialog"
	"github.com/brightbroom/booking-platform/internal/messaging"
	"github.com/brightbroom/booking-platform/internal/observability/metrics"
	"github.com/brightbroom/booking-platform/internal/session"
	"github.com/brightbroom/booking-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting brightbroom booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	registry := prometheus.NewRegistry()
	convMetrics := metrics.NewConversationMetrics(registry)

	// Session store: redis when configured, in-process otherwise. The
	// in-memory store needs its own TTL sweeper; redis expires keys itself.
	var store session.Store
	var sweeper *session.Sweeper
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		defer client.Close()
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis ping failed", "error", err)
			os.Exit(1)
		}
		store = session.NewRedisStore(client, cfg.SessionTTL)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	} else {
		mem := session.NewMemoryStore()
		store = mem
		sweeper = session.NewSweeper(mem, cfg.SessionTTL, cfg.SessionSweepInterval, logger, func(count int) {
			convMetrics.ObserveEvictions(count)
			convMetrics.SetActiveSessions(mem.Len())
		})
		sweeper.Start()
		defer sweeper.Stop()
		logger.Info("using in-memory session store")
	}

	// Booking sink and lookup: postgres when configured, in-memory otherwise.
	var sink booking.Sink
	var lookup booking.Lookup
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pg := booking.NewPostgresStore(pool)
		sink = pg
		lookup = pg
		logger.Info("using postgres booking store")
	} else {
		mem := booking.NewMemoryStore()
		sink = mem
		lookup = mem
		logger.Info("using in-memory booking store")
	}
	sink = booking.NewService(sink, cfg.BookingSinkTimeout, logger)

	schedule := availability.NewStaticSchedule(cfg.OpenHour, cfg.CloseHour, cfg.SlotMinutes)
	machine := dialog.NewMachine(schedule, sink, cfg.BusinessPhone, logger)
	orchestrator := dialog.NewOrchestrator(store, machine, lookup, schedule, cfg.BusinessPhone, logger, convMetrics)

	messagingHandler := messaging.NewHandler(cfg.TwilioWebhookSecret, orchestrator, logger)

	r := router.New(&router.Config{
		Logger:           logger,
		MessagingHandler: messagingHandler,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
