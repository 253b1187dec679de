// Command import-csv bulk-loads reviews from a CSV file into the review
// store, applying the same normalization and sentiment derivation as the
// HTTP upload endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/VisheshJ2007/StoreSight/internal/config"
	"github.com/VisheshJ2007/StoreSight/internal/event"
	"github.com/VisheshJ2007/StoreSight/internal/repository/postgres"
	"github.com/VisheshJ2007/StoreSight/internal/service"
	"github.com/VisheshJ2007/StoreSight/migrations"
	"github.com/VisheshJ2007/StoreSight/pkg/database"
	pkgkafka "github.com/VisheshJ2007/StoreSight/pkg/kafka"
	"github.com/VisheshJ2007/StoreSight/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	var (
		storeID int64
		path    string
	)
	flag.Int64Var(&storeID, "store", 0, "store id to attach the reviews to (required)")
	flag.StringVar(&path, "file", "", "path to the CSV file (required)")
	flag.Parse()

	if storeID <= 0 {
		return fmt.Errorf("-store must be a positive integer")
	}
	if path == "" {
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("storesight-import", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), log)
	defer producer.Close()

	repo := postgres.NewReviewRepository(pool)
	reviews := service.NewReviewService(repo, event.NewProducer(producer, log), log)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	result, err := reviews.ImportCSV(ctx, storeID, f)
	if err != nil {
		return fmt.Errorf("import csv: %w", err)
	}

	log.Info("import complete",
		slog.Int64("store_id", storeID),
		slog.Int("rows_inserted", result.RowsInserted),
		slog.Int("skipped_rows", result.SkippedRows),
	)
	fmt.Printf("imported %d reviews (%d rows skipped)\n", result.RowsInserted, result.SkippedRows)
	return nil
}
