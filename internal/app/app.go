package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/VisheshJ2007/StoreSight/internal/config"
	"github.com/VisheshJ2007/StoreSight/internal/event"
	handler "github.com/VisheshJ2007/StoreSight/internal/handler/http"
	"github.com/VisheshJ2007/StoreSight/internal/repository/postgres"
	"github.com/VisheshJ2007/StoreSight/internal/service"
	"github.com/VisheshJ2007/StoreSight/migrations"
	"github.com/VisheshJ2007/StoreSight/pkg/database"
	"github.com/VisheshJ2007/StoreSight/pkg/health"
	pkgkafka "github.com/VisheshJ2007/StoreSight/pkg/kafka"
	"github.com/VisheshJ2007/StoreSight/pkg/middleware"
)

// App wires together all dependencies and runs the StoreSight service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := prometheus.Register(database.NewPoolStatsCollector(pool, "storesight")); err != nil {
		logger.Warn("pool stats collector registration failed", slog.String("error", err.Error()))
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	repo := postgres.NewReviewRepository(pool)
	eventProducer := event.NewProducer(producer, logger)
	reviewService := service.NewReviewService(repo, eventProducer, logger)
	analyticsService := service.NewAnalyticsService(repo, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	// HTTP router.
	cors := middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	}
	router := handler.NewRouter(reviewService, analyticsService, healthHandler, cors, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
