package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/platform-service/internal/config"
	"github.com/georgemunganga/platform-service/internal/modules/platform"
	"github.com/georgemunganga/platform-service/internal/obs"
	"github.com/georgemunganga/platform-service/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "platform-service", cfg.OTelEndpoint)
	if err != nil {
		logger.Error("tracing_setup_error", "error", err)
		os.Exit(1)
	}

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage_error", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(obs.RequestLogger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// ── Platforms ───────────────────────────────────────────
	commandClient := platform.NewHTTPCommandClient(
		&http.Client{Timeout: cfg.CommandServiceTimeout},
		cfg.CommandServiceURL,
		logger.With("component", "command_client"),
	)
	platformService := platform.NewService(repo, commandClient, logger.With("component", "platform_service"))
	platform.NewHandler(platformService, logger).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listen", "addr", cfg.Addr(), "storage", cfg.StorageDriver, "command_service", cfg.CommandServiceURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown_signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_error", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing_shutdown_error", "error", err)
	}
	logger.Info("service_stopped")
}

// openRepository builds the configured platform store and a matching close func.
func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (platform.Repository, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("storage_ready", "driver", cfg.StorageDriver)
		return platform.NewPostgresRepository(db), func() { _ = db.Close() }, nil
	case config.DriverSQLite:
		repo, err := platform.OpenSQLiteRepository(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("storage_ready", "driver", cfg.StorageDriver, "path", cfg.SQLitePath)
		return repo, func() { _ = repo.Close() }, nil
	default:
		logger.Info("storage_ready", "driver", config.DriverMemory)
		return platform.NewMemoryRepository(), func() {}, nil
	}
}
