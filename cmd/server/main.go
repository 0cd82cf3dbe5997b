package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sifan077/LinkShelf/config"
	appmodel "github.com/sifan077/LinkShelf/internal/app/model"
	apprepository "github.com/sifan077/LinkShelf/internal/app/repository"
	appserver "github.com/sifan077/LinkShelf/internal/app/server"
	appservice "github.com/sifan077/LinkShelf/internal/app/service"
	"github.com/sifan077/LinkShelf/internal/http/middleware"
	"github.com/sifan077/LinkShelf/internal/infra/logger"
	infraPostgres "github.com/sifan077/LinkShelf/internal/infra/postgres"
	infraPrometheus "github.com/sifan077/LinkShelf/internal/infra/prometheus"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, cfgErr := config.Load()

	log := logger.Must(logger.FromConfig(cfg, "linkshelf-api"))
	defer func() { _ = logger.Sync(log) }()

	if cfgErr != nil {
		log.Fatal("Failed to load config", zap.Error(cfgErr))
	}

	log.Info("Configuration loaded successfully",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.Server.Port),
		zap.Strings("cors_allowed_origins", cfg.CORS.AllowedOrigins),
		zap.Bool("prometheus_enabled", cfg.Prometheus.Enabled),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB, &appmodel.Link{}); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	log.Info("Connected to Postgres successfully")

	registry := infraPrometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)

	if cfg.Prometheus.Enabled {
		promServer := infraPrometheus.NewServer(cfg.Prometheus, registry)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Prometheus metrics server disabled")
	}

	linkRepo := apprepository.NewLinkRepository(gormDB)
	linkService := appservice.NewLinkService(linkRepo)

	server := appserver.New(appserver.Dependencies{
		Logger:         log,
		Links:          linkService,
		Database:       pool,
		Metrics:        metrics,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		ExposeErrors:   !cfg.App.IsProduction(),
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info("LinkShelf API listening", zap.String("addr", cfg.Server.Addr()))
		serveErr <- server.Listen(cfg.Server.Addr())
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("Fiber server exited", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("Graceful shutdown failed", zap.Error(err))
	}
}
