package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/pusdatin-klh/sinta-admin-web/internal/session"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/logger"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/metrics"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/redis"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/upstream"
	"github.com/pusdatin-klh/sinta-admin-web/web/controllers"
	"github.com/pusdatin-klh/sinta-admin-web/web/routes"
	"github.com/pusdatin-klh/sinta-admin-web/web/views"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "web"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "web",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)

	api, err := upstream.NewClient(cfg.Upstream, logg, upstreamMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build upstream client", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, api, cfg.Session, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	renderer, err := views.NewRenderer(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to parse templates", err)
		os.Exit(1)
	}

	ctrl := controllers.New(renderer, sessionManager, redisClient, cfg, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(cfg, logg, redisClient, sessionManager, ctrl, httpMetrics, registry),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"upstream": cfg.Upstream.BaseURL,
	})
	logg.Info(ctx, "starting web server")

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "web server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var teardown error
	teardown = multierr.Append(teardown, server.Shutdown(shutdownCtx))
	teardown = multierr.Append(teardown, redisClient.Close())
	if teardown != nil {
		logg.Error(ctx, "teardown finished with errors", teardown)
		os.Exit(1)
	}
	logg.Info(ctx, "web server stopped")
}
