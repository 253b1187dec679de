// Package memory provides an in-memory ReviewRepository used by tests and
// local development. It mirrors the aggregation semantics of the PostgreSQL
// implementation: averages ignore absent values, metric days with no reviews
// are omitted, and listings are newest first.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VisheshJ2007/StoreSight/internal/domain"
)

// ReviewRepository is an in-memory implementation of repository.ReviewRepository.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews []domain.Review

	// failWith, when set, makes every operation fail. Tests use it to
	// simulate an unreachable store.
	failWith error
}

// NewReviewRepository creates an empty in-memory review repository.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// FailWith makes all subsequent operations return the given error. Pass nil
// to restore normal behavior.
func (r *ReviewRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

// Insert stores a new review and returns its assigned id.
func (r *ReviewRepository) Insert(ctx context.Context, review *domain.Review) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return "", r.failWith
	}
	if review.StoreID <= 0 {
		return "", fmt.Errorf("insert review: store id is required")
	}

	stored := *review
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.reviews = append(r.reviews, stored)

	review.ID = stored.ID
	review.CreatedAt = stored.CreatedAt
	return stored.ID, nil
}

// ListByStore returns up to limit reviews for a store, newest first.
func (r *ReviewRepository) ListByStore(ctx context.Context, storeID int64, limit int) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	matched := r.collect(storeID, func(domain.Review) bool { return true })
	return capLimit(matched, limit), nil
}

// Overview computes the all-time aggregate stats for a store.
func (r *ReviewRepository) Overview(ctx context.Context, storeID int64) (*domain.OverviewStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	stats := domain.OverviewStats{StoreID: storeID}

	var ratingSum float64
	var ratingCount int

	for _, rv := range r.reviews {
		if rv.StoreID != storeID {
			continue
		}

		stats.TotalReviews++
		if rv.Rating != nil {
			ratingSum += *rv.Rating
			ratingCount++
		}
		if rv.SentimentLabel != nil {
			switch *rv.SentimentLabel {
			case domain.SentimentPositive:
				stats.PositiveReviews++
			case domain.SentimentNegative:
				stats.NegativeReviews++
			}
		}

		created := rv.CreatedAt
		if stats.FirstReviewAt == nil || created.Before(*stats.FirstReviewAt) {
			t := created
			stats.FirstReviewAt = &t
		}
		if stats.LastReviewAt == nil || created.After(*stats.LastReviewAt) {
			t := created
			stats.LastReviewAt = &t
		}
	}

	if ratingCount > 0 {
		avg := ratingSum / float64(ratingCount)
		stats.AvgRating = &avg
	}

	return &stats, nil
}

// DailyMetrics returns per-day metrics for a store since the given time.
// Days with no reviews are omitted.
func (r *ReviewRepository) DailyMetrics(ctx context.Context, storeID int64, since time.Time) ([]domain.MetricPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	type bucket struct {
		count       int
		ratingSum   float64
		ratingCount int
		scoreSum    float64
		scoreCount  int
	}
	buckets := make(map[string]*bucket)

	for _, rv := range r.reviews {
		if rv.StoreID != storeID || rv.CreatedAt.Before(since) {
			continue
		}

		day := rv.CreatedAt.UTC().Format("2006-01-02")
		b := buckets[day]
		if b == nil {
			b = &bucket{}
			buckets[day] = b
		}
		b.count++
		if rv.Rating != nil {
			b.ratingSum += *rv.Rating
			b.ratingCount++
		}
		if rv.SentimentScore != nil {
			b.scoreSum += *rv.SentimentScore
			b.scoreCount++
		}
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	points := []domain.MetricPoint{}
	for _, day := range days {
		b := buckets[day]
		p := domain.MetricPoint{Date: day, ReviewCount: b.count}
		if b.ratingCount > 0 {
			avg := b.ratingSum / float64(b.ratingCount)
			p.AvgRating = &avg
		}
		if b.scoreCount > 0 {
			avg := b.scoreSum / float64(b.scoreCount)
			p.AvgSentiment = &avg
		}
		points = append(points, p)
	}

	return points, nil
}

// ListIssues returns up to limit flagged reviews, newest first.
func (r *ReviewRepository) ListIssues(ctx context.Context, storeID int64, limit int) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	matched := r.collect(storeID, func(rv domain.Review) bool {
		if rv.Rating != nil && *rv.Rating <= domain.IssueRatingThreshold {
			return true
		}
		return rv.SentimentLabel != nil && *rv.SentimentLabel == domain.SentimentNegative
	})
	return capLimit(matched, limit), nil
}

// collect returns a store's reviews matching the predicate, newest first.
// Callers must hold the lock.
func (r *ReviewRepository) collect(storeID int64, match func(domain.Review) bool) []domain.Review {
	matched := []domain.Review{}
	for _, rv := range r.reviews {
		if rv.StoreID == storeID && match(rv) {
			matched = append(matched, rv)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func capLimit(reviews []domain.Review, limit int) []domain.Review {
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews
}
