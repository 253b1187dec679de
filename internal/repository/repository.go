package repository

import (
	"context"
	"time"

	"github.com/VisheshJ2007/StoreSight/internal/domain"
)

// ReviewRepository defines the persistence contract for review records and
// the aggregate queries derived from them. The core depends only on this
// interface; production uses the PostgreSQL implementation and tests use the
// in-memory one.
type ReviewRepository interface {
	// Insert stores a new review and returns its assigned id. The store
	// assigns ingestion time when the review's CreatedAt is zero.
	Insert(ctx context.Context, review *domain.Review) (string, error)

	// ListByStore returns up to limit reviews for a store, newest first.
	ListByStore(ctx context.Context, storeID int64, limit int) ([]domain.Review, error)

	// Overview computes the all-time aggregate stats for a store.
	Overview(ctx context.Context, storeID int64) (*domain.OverviewStats, error)

	// DailyMetrics returns per-day review metrics for a store since the given
	// time, ordered ascending by date. Days with no reviews are omitted.
	DailyMetrics(ctx context.Context, storeID int64, since time.Time) ([]domain.MetricPoint, error)

	// ListIssues returns up to limit reviews flagged as needing attention
	// (rating <= 3 or negative sentiment), newest first.
	ListIssues(ctx context.Context, storeID int64, limit int) ([]domain.Review, error)
}
