package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VisheshJ2007/StoreSight/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func insertReview(t *testing.T, repo *ReviewRepository, storeID int64, rating *float64, label *string, text string, at time.Time) string {
	t.Helper()
	rv := &domain.Review{
		StoreID:        storeID,
		Rating:         rating,
		Source:         "Test",
		SentimentLabel: label,
		Text:           text,
		CreatedAt:      at,
	}
	if rating != nil {
		rv.SentimentScore, rv.SentimentLabel = domain.DeriveSentiment(rating)
	}
	if label != nil {
		rv.SentimentLabel = label
	}
	id, err := repo.Insert(context.Background(), rv)
	require.NoError(t, err)
	return id
}

func TestInsert_AssignsIDAndTimestamp(t *testing.T) {
	repo := NewReviewRepository()

	rv := &domain.Review{StoreID: 1, Text: "hello"}
	id, err := repo.Insert(context.Background(), rv)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rv.ID)
	assert.False(t, rv.CreatedAt.IsZero())
}

func TestInsert_RejectsMissingStoreID(t *testing.T) {
	repo := NewReviewRepository()

	_, err := repo.Insert(context.Background(), &domain.Review{Text: "orphan"})
	assert.Error(t, err)
}

func TestListByStore_NewestFirstAndScoped(t *testing.T) {
	repo := NewReviewRepository()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	insertReview(t, repo, 1, floatPtr(4.0), nil, "old", base)
	insertReview(t, repo, 1, floatPtr(5.0), nil, "new", base.Add(time.Hour))
	insertReview(t, repo, 2, floatPtr(3.0), nil, "other store", base)

	reviews, err := repo.ListByStore(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "new", reviews[0].Text)
	assert.Equal(t, "old", reviews[1].Text)
}

func TestListByStore_Limit(t *testing.T) {
	repo := NewReviewRepository()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		insertReview(t, repo, 1, floatPtr(4.0), nil, "r", base.Add(time.Duration(i)*time.Minute))
	}

	reviews, err := repo.ListByStore(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}

func TestOverview_Aggregates(t *testing.T) {
	repo := NewReviewRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	insertReview(t, repo, 1, floatPtr(5.0), nil, "great", base)
	insertReview(t, repo, 1, floatPtr(1.0), nil, "awful", base.Add(24*time.Hour))
	insertReview(t, repo, 1, nil, nil, "no rating", base.Add(48*time.Hour))

	stats, err := repo.Overview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalReviews)
	// Average over rated reviews only: (5 + 1) / 2.
	require.NotNil(t, stats.AvgRating)
	assert.Equal(t, 3.0, *stats.AvgRating)
	assert.Equal(t, 1, stats.PositiveReviews)
	assert.Equal(t, 1, stats.NegativeReviews)
	assert.Equal(t, base, *stats.FirstReviewAt)
	assert.Equal(t, base.Add(48*time.Hour), *stats.LastReviewAt)
}

func TestOverview_EmptyStore(t *testing.T) {
	repo := NewReviewRepository()

	stats, err := repo.Overview(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.StoreID)
	assert.Equal(t, 0, stats.TotalReviews)
	assert.Nil(t, stats.AvgRating)
	assert.Nil(t, stats.FirstReviewAt)
	assert.Nil(t, stats.LastReviewAt)
}

func TestDailyMetrics_BucketsAndOmitsEmptyDays(t *testing.T) {
	repo := NewReviewRepository()
	day1 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC)

	insertReview(t, repo, 1, floatPtr(4.0), nil, "a", day1)
	insertReview(t, repo, 1, floatPtr(5.0), nil, "b", day1.Add(time.Hour))
	insertReview(t, repo, 1, nil, nil, "c", day3)

	points, err := repo.DailyMetrics(context.Background(), 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "2026-01-01", points[0].Date)
	assert.Equal(t, 2, points[0].ReviewCount)
	assert.Equal(t, 4.5, *points[0].AvgRating)

	assert.Equal(t, "2026-01-03", points[1].Date)
	assert.Equal(t, 1, points[1].ReviewCount)
	assert.Nil(t, points[1].AvgRating)
}

func TestDailyMetrics_SinceFilter(t *testing.T) {
	repo := NewReviewRepository()
	old := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	insertReview(t, repo, 1, floatPtr(4.0), nil, "old", old)
	insertReview(t, repo, 1, floatPtr(5.0), nil, "recent", recent)

	points, err := repo.DailyMetrics(context.Background(), 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "2026-01-05", points[0].Date)
}

func TestListIssues_FlagsLowRatingOrNegative(t *testing.T) {
	repo := NewReviewRepository()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	insertReview(t, repo, 1, floatPtr(5.0), nil, "fine", base)
	insertReview(t, repo, 1, floatPtr(3.0), nil, "at threshold", base.Add(time.Minute))
	insertReview(t, repo, 1, nil, strPtr(domain.SentimentNegative), "negative label only", base.Add(2*time.Minute))

	issues, err := repo.ListIssues(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "negative label only", issues[0].Text)
	assert.Equal(t, "at threshold", issues[1].Text)
}

func TestFailWith_SimulatesUnreachableStore(t *testing.T) {
	repo := NewReviewRepository()
	boom := errors.New("store down")
	repo.FailWith(boom)

	_, err := repo.Insert(context.Background(), &domain.Review{StoreID: 1, Text: "x"})
	assert.ErrorIs(t, err, boom)

	_, err = repo.Overview(context.Background(), 1)
	assert.ErrorIs(t, err, boom)

	repo.FailWith(nil)
	_, err = repo.Overview(context.Background(), 1)
	assert.NoError(t, err)
}
