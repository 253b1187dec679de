package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/VisheshJ2007/StoreSight/internal/domain"
	"github.com/VisheshJ2007/StoreSight/pkg/database"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, store_id, rating, source, sentiment_score, sentiment_label, review_text, created_at`

// Insert stores a new review and returns its assigned id. A zero CreatedAt
// is replaced with ingestion time.
func (r *ReviewRepository) Insert(ctx context.Context, review *domain.Review) (string, error) {
	if review.StoreID <= 0 {
		return "", fmt.Errorf("insert review: store id is required")
	}

	id := review.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := review.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reviews (id, store_id, rating, source, sentiment_score, sentiment_label, review_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		id,
		review.StoreID,
		review.Rating,
		review.Source,
		review.SentimentScore,
		review.SentimentLabel,
		review.Text,
		createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert review: %w", err)
	}

	review.ID = id
	review.CreatedAt = createdAt
	return id, nil
}

// ListByStore returns up to limit reviews for a store, newest first.
func (r *ReviewRepository) ListByStore(ctx context.Context, storeID int64, limit int) ([]domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE store_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, reviewColumns)

	return r.queryReviews(ctx, query, storeID, limit)
}

// Overview computes the all-time aggregate stats for a store. A store with
// no reviews yields zero counts and nil average/timestamps.
func (r *ReviewRepository) Overview(ctx context.Context, storeID int64) (*domain.OverviewStats, error) {
	query := `
		SELECT COUNT(*),
		       AVG(rating),
		       COUNT(*) FILTER (WHERE sentiment_label = 'Positive'),
		       COUNT(*) FILTER (WHERE sentiment_label = 'Negative'),
		       MIN(created_at),
		       MAX(created_at)
		FROM reviews
		WHERE store_id = $1`

	stats := domain.OverviewStats{StoreID: storeID}

	err := r.pool.QueryRow(ctx, query, storeID).Scan(
		&stats.TotalReviews,
		&stats.AvgRating,
		&stats.PositiveReviews,
		&stats.NegativeReviews,
		&stats.FirstReviewAt,
		&stats.LastReviewAt,
	)
	if err != nil {
		return nil, fmt.Errorf("store overview: %w", err)
	}

	return &stats, nil
}

// DailyMetrics returns per-day metrics for a store since the given time,
// ordered ascending by date. Grouped aggregation: days with no reviews do
// not appear in the result.
func (r *ReviewRepository) DailyMetrics(ctx context.Context, storeID int64, since time.Time) ([]domain.MetricPoint, error) {
	query := `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day,
		       COUNT(*),
		       AVG(rating),
		       AVG(sentiment_score)
		FROM reviews
		WHERE store_id = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day ASC`

	rows, err := r.pool.Query(ctx, query, storeID, since)
	if err != nil {
		return nil, fmt.Errorf("daily metrics: %w", err)
	}
	defer rows.Close()

	points := []domain.MetricPoint{}
	for rows.Next() {
		var p domain.MetricPoint
		if err := rows.Scan(&p.Date, &p.ReviewCount, &p.AvgRating, &p.AvgSentiment); err != nil {
			return nil, fmt.Errorf("scan metric row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric rows: %w", err)
	}

	return points, nil
}

// ListIssues returns up to limit reviews flagged as needing attention,
// newest first.
func (r *ReviewRepository) ListIssues(ctx context.Context, storeID int64, limit int) ([]domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE store_id = $1 AND (rating <= $2 OR sentiment_label = $3)
		ORDER BY created_at DESC
		LIMIT $4`, reviewColumns)

	rows, err := r.pool.Query(ctx, query, storeID, domain.IssueRatingThreshold, domain.SentimentNegative, limit)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

func (r *ReviewRepository) queryReviews(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanReviews(rows rowScanner) ([]domain.Review, error) {
	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.StoreID,
			&rv.Rating,
			&rv.Source,
			&rv.SentimentScore,
			&rv.SentimentLabel,
			&rv.Text,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}
