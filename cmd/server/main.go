package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"users-service/internal/api"
	"users-service/internal/api/handlers"
	"users-service/internal/api/middleware"
	"users-service/internal/database"
	"users-service/internal/repository"
	"users-service/internal/service"
	"users-service/pkg/config"
	"users-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *slog.Logger) error {
	appLogger.Info("starting users service",
		"version", "1.0.0",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Driver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализация хранилища
	var (
		userRepo repository.UserRepository
		health   handlers.HealthChecker
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		memRepo, err := repository.NewMemoryUserRepository(appLogger)
		if err != nil {
			return err
		}
		userRepo = memRepo
	default:
		db, err := database.New(ctx, &cfg.Database, appLogger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if cfg.Database.Migrate {
			if err := database.Migrate(cfg.Database.GetURL(), appLogger); err != nil {
				return err
			}
		}

		userRepo = repository.NewUserRepository(db.Pool, appLogger)
		health = db
	}

	// Инициализация сервисов
	userService := service.NewUserService(userRepo, appLogger)
	statsService := service.NewStatsService(userRepo, appLogger)

	// Инициализация хендлеров
	handler := handlers.NewHandler(userService, statsService, health, appLogger)

	// Инициализация роутера и мидлваре
	routerOpts := api.RouterOptions{}
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		routerOpts.Metrics = middleware.NewMetrics(registry)
		routerOpts.MetricsPath = cfg.Metrics.Path
	}
	router := api.NewRouter(handler, appLogger, routerOpts)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		appLogger.Info("server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	// Graceful shutdown
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info("server stopped gracefully")
	return nil
}
