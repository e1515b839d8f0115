package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DukeRupert/pagelinks/internal"
	"github.com/DukeRupert/pagelinks/internal/handler"
	"github.com/DukeRupert/pagelinks/internal/metrics"
	"github.com/DukeRupert/pagelinks/internal/middleware"
	"github.com/DukeRupert/pagelinks/internal/service"
	"github.com/DukeRupert/pagelinks/internal/store"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.IsDevelopment(), cfg.LogLevel)

	// Initialize storage
	itemStore, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize services
	itemService := service.NewItemService(itemStore, logger)
	if cfg.StorageProvider == "memory" && cfg.SeedItems > 0 {
		if err := itemService.Seed(ctx, cfg.SeedItems); err != nil {
			return fmt.Errorf("seeding items failed: %w", err)
		}
	}

	// Initialize handlers
	itemHandler := handler.NewItemHandler(itemService, logger, cfg.PerPage, handler.PaginationOptions{
		Policy:    cfg.Policy,
		PageParam: cfg.PageParam,
		Blacklist: cfg.ParamBlacklist,
	})

	// Initialize middleware
	requestLogger := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuth := middleware.NewBasicAuthMiddleware("metrics", cfg.MetricsUsername, cfg.MetricsPassword)
	if cfg.MetricsUsername == "" && cfg.MetricsPassword == "" {
		logger.Warn("Metrics endpoint is unprotected; set METRICS_USERNAME and METRICS_PASSWORD")
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	router := mux.NewRouter()
	router.Use(middleware.Stack(middleware.RequestID, requestLogger.Handler, metrics.Middleware))

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	// Metrics (basic auth when configured)
	router.Handle("/metrics", metricsAuth.Handler(promhttp.Handler())).Methods(http.MethodGet)

	router.Handle("/", http.RedirectHandler("/items", http.StatusFound)).Methods(http.MethodGet)
	itemHandler.RegisterRoutes(router)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.NotFoundResponse(w, r, logger)
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "storage", cfg.StorageProvider)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// openStore returns the configured item store and a function releasing it.
func openStore(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.StorageProvider != "postgres" {
		logger.Info("Using in-memory store", "seed_items", cfg.SeedItems)
		return store.NewMemoryStore(), func() {}, nil
	}

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready", "table", cfg.ItemsTable)

	return store.NewPostgresStore(db, cfg.ItemsTable), func() { db.Close() }, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
