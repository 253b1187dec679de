package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VisheshJ2007/StoreSight/internal/domain"
	"github.com/VisheshJ2007/StoreSight/pkg/database"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupRepo(t *testing.T) (*ReviewRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewReviewRepository(mock)
	return repo, mock
}

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func sampleReview() *domain.Review {
	return &domain.Review{
		ID:             "rev-001",
		StoreID:        42,
		Rating:         floatPtr(4.5),
		Source:         "Google",
		SentimentScore: floatPtr(0.9),
		SentimentLabel: strPtr(domain.SentimentPositive),
		Text:           "great place",
		CreatedAt:      time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func reviewCols() []string {
	return []string{
		"id", "store_id", "rating", "source",
		"sentiment_score", "sentiment_label", "review_text", "created_at",
	}
}

func reviewRows(reviews ...*domain.Review) *pgxmock.Rows {
	rows := pgxmock.NewRows(reviewCols())
	for _, rv := range reviews {
		rows.AddRow(
			rv.ID, rv.StoreID, rv.Rating, rv.Source,
			rv.SentimentScore, rv.SentimentLabel, rv.Text, rv.CreatedAt,
		)
	}
	return rows
}

// ---------------------------------------------------------------------------
// Insert
// ---------------------------------------------------------------------------

func TestReviewRepository_Insert_Success(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	rv := sampleReview()

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(
			rv.ID, rv.StoreID, rv.Rating, rv.Source,
			rv.SentimentScore, rv.SentimentLabel, rv.Text, rv.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := repo.Insert(context.Background(), rv)
	assert.NoError(t, err)
	assert.Equal(t, "rev-001", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Insert_AssignsIDAndTimestamp(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	rv := sampleReview()
	rv.ID = ""
	rv.CreatedAt = time.Time{}

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(
			pgxmock.AnyArg(), rv.StoreID, rv.Rating, rv.Source,
			rv.SentimentScore, rv.SentimentLabel, rv.Text, pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := repo.Insert(context.Background(), rv)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rv.ID)
	assert.False(t, rv.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Insert_MissingStoreID(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	rv := sampleReview()
	rv.StoreID = 0

	_, err := repo.Insert(context.Background(), rv)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Insert_ExecError(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	rv := sampleReview()

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(
			rv.ID, rv.StoreID, rv.Rating, rv.Source,
			rv.SentimentScore, rv.SentimentLabel, rv.Text, rv.CreatedAt,
		).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Insert(context.Background(), rv)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert review")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListByStore
// ---------------------------------------------------------------------------

func TestReviewRepository_ListByStore_Success(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	rv := sampleReview()

	mock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs(int64(42), 50).
		WillReturnRows(reviewRows(rv))

	reviews, err := repo.ListByStore(context.Background(), 42, 50)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "rev-001", reviews[0].ID)
	assert.Equal(t, 4.5, *reviews[0].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByStore_Empty(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs(int64(42), 50).
		WillReturnRows(reviewRows())

	reviews, err := repo.ListByStore(context.Background(), 42, 50)
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Overview
// ---------------------------------------------------------------------------

func TestReviewRepository_Overview_Success(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"count", "avg", "positive", "negative", "min", "max"}).
		AddRow(10, floatPtr(4.2), 6, 2, &first, &last)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	stats, err := repo.Overview(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.StoreID)
	assert.Equal(t, 10, stats.TotalReviews)
	assert.Equal(t, 4.2, *stats.AvgRating)
	assert.Equal(t, 6, stats.PositiveReviews)
	assert.Equal(t, 2, stats.NegativeReviews)
	assert.Equal(t, first, *stats.FirstReviewAt)
	assert.Equal(t, last, *stats.LastReviewAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Overview_EmptyStore(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"count", "avg", "positive", "negative", "min", "max"}).
		AddRow(0, (*float64)(nil), 0, 0, (*time.Time)(nil), (*time.Time)(nil))

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(99)).
		WillReturnRows(rows)

	stats, err := repo.Overview(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalReviews)
	assert.Nil(t, stats.AvgRating)
	assert.Nil(t, stats.FirstReviewAt)
	assert.Nil(t, stats.LastReviewAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// DailyMetrics
// ---------------------------------------------------------------------------

func TestReviewRepository_DailyMetrics_Success(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"day", "count", "avg_rating", "avg_sentiment"}).
		AddRow("2026-01-02", 3, floatPtr(4.0), floatPtr(0.5)).
		AddRow("2026-01-05", 1, (*float64)(nil), (*float64)(nil))

	mock.ExpectQuery("SELECT to_char").
		WithArgs(int64(42), since).
		WillReturnRows(rows)

	points, err := repo.DailyMetrics(context.Background(), 42, since)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-01-02", points[0].Date)
	assert.Equal(t, 3, points[0].ReviewCount)
	assert.Equal(t, 4.0, *points[0].AvgRating)
	assert.Equal(t, "2026-01-05", points[1].Date)
	assert.Nil(t, points[1].AvgRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_DailyMetrics_QueryError(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT to_char").
		WithArgs(int64(42), since).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.DailyMetrics(context.Background(), 42, since)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "daily metrics")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListIssues
// ---------------------------------------------------------------------------

func TestReviewRepository_ListIssues_Success(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	low := sampleReview()
	low.ID = "rev-low"
	low.Rating = floatPtr(2.0)
	low.SentimentScore = floatPtr(-0.6)
	low.SentimentLabel = strPtr(domain.SentimentNegative)

	mock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs(int64(42), domain.IssueRatingThreshold, domain.SentimentNegative, 20).
		WillReturnRows(reviewRows(low))

	reviews, err := repo.ListIssues(context.Background(), 42, 20)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "rev-low", reviews[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListIssues_QueryError(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs(int64(42), domain.IssueRatingThreshold, domain.SentimentNegative, 20).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.ListIssues(context.Background(), 42, 20)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "list issues")
	assert.NoError(t, mock.ExpectationsWereMet())
}
