package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/VisheshJ2007/StoreSight/internal/domain"
	"github.com/VisheshJ2007/StoreSight/internal/repository"
	apperrors "github.com/VisheshJ2007/StoreSight/pkg/errors"
)

// DefaultIssueLimit caps issue listings when the caller does not ask for a
// specific limit.
const DefaultIssueLimit = 20

// summaryIssueLimit is how many issues the summary builder samples for its
// theme ranking.
const summaryIssueLimit = 50

// trendThreshold is the relative difference beyond which the recent average
// counts as trending up or down versus the overall average.
const trendThreshold = 0.05

// Metrics is the time-bucketed metric series for a store over a range.
type Metrics struct {
	Range string               `json:"range"`
	Data  []domain.MetricPoint `json:"data"`
}

// AnalyticsService computes the derived read views: overview, per-day
// metrics, flagged issues, and the combined summary. All views are computed
// on demand from the review store; nothing is persisted.
type AnalyticsService struct {
	repo   repository.ReviewRepository
	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(repo repository.ReviewRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// GetOverview returns the all-time aggregate stats for a store.
func (s *AnalyticsService) GetOverview(ctx context.Context, storeID int64) (*domain.OverviewStats, error) {
	if storeID <= 0 {
		return nil, apperrors.InvalidInput("store id must be a positive integer")
	}

	stats, err := s.repo.Overview(ctx, storeID)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}
	return stats, nil
}

// GetMetrics returns the per-day metric series for a store over the given
// range (7d, 30d, or 90d; anything else falls back to 30d). The window is
// the last N calendar days up to now; days with no reviews are omitted.
func (s *AnalyticsService) GetMetrics(ctx context.Context, storeID int64, rng string) (*Metrics, error) {
	if storeID <= 0 {
		return nil, apperrors.InvalidInput("store id must be a positive integer")
	}

	canonical, days := domain.NormalizeRange(rng)
	since := startOfWindow(s.now().UTC(), days)

	points, err := s.repo.DailyMetrics(ctx, storeID, since)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}

	return &Metrics{Range: canonical, Data: points}, nil
}

// GetIssues returns reviews flagged as needing attention (rating <= 3 or
// negative sentiment), newest first, with themes derived from their text.
func (s *AnalyticsService) GetIssues(ctx context.Context, storeID int64, limit int) ([]domain.Issue, error) {
	if storeID <= 0 {
		return nil, apperrors.InvalidInput("store id must be a positive integer")
	}
	if limit <= 0 {
		limit = DefaultIssueLimit
	}

	reviews, err := s.repo.ListIssues(ctx, storeID, limit)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}

	issues := make([]domain.Issue, 0, len(reviews))
	for _, rv := range reviews {
		issues = append(issues, domain.Issue{
			Review: rv,
			Themes: domain.TagThemes(rv.Text),
		})
	}
	return issues, nil
}

// GetSummary combines overview, metrics, and issues into a trend
// classification, ranked theme list, and narrative. The three sub-fetches
// run concurrently; if any one fails the whole summary fails.
func (s *AnalyticsService) GetSummary(ctx context.Context, storeID int64, rng string) (*domain.Summary, error) {
	if storeID <= 0 {
		return nil, apperrors.InvalidInput("store id must be a positive integer")
	}

	canonical, _ := domain.NormalizeRange(rng)

	var (
		overview *domain.OverviewStats
		metrics  *Metrics
		issues   []domain.Issue
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview, err = s.GetOverview(gctx, storeID)
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = s.GetMetrics(gctx, storeID, canonical)
		return err
	})
	g.Go(func() error {
		var err error
		issues, err = s.GetIssues(gctx, storeID, summaryIssueLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recentAvg := recentAvgRating(metrics.Data)
	trend := classifyTrend(recentAvg, overview.AvgRating)
	topThemes := rankThemes(issues, 3)

	summary := &domain.Summary{
		StoreID:     storeID,
		Range:       canonical,
		SummaryText: buildSummaryText(overview, recentAvg, trend, topThemes),
		Highlights:  buildHighlights(overview, trend, topThemes),
		Stats: domain.SummaryStats{
			TotalReviews:    overview.TotalReviews,
			AvgRating:       overview.AvgRating,
			RecentAvgRating: recentAvg,
			PositiveReviews: overview.PositiveReviews,
			NegativeReviews: overview.NegativeReviews,
			TopThemes:       topThemes,
			FirstReviewAt:   overview.FirstReviewAt,
			LastReviewAt:    overview.LastReviewAt,
		},
	}

	return summary, nil
}

// startOfWindow returns midnight UTC of the first day in an n-day window
// ending today.
func startOfWindow(now time.Time, days int) time.Time {
	d := now.AddDate(0, 0, -(days - 1))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// recentAvgRating is the mean of per-day average ratings across points that
// have one. Days with no rated reviews are excluded from the mean, not
// treated as zero.
func recentAvgRating(points []domain.MetricPoint) *float64 {
	var sum float64
	var count int
	for _, p := range points {
		if p.AvgRating != nil {
			sum += *p.AvgRating
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

// classifyTrend compares the recent average rating to the overall average.
// More than +5% relative difference is up, less than -5% is down, and
// everything else (including a missing average on either side) is flat.
func classifyTrend(recent, overall *float64) string {
	if recent == nil || overall == nil {
		return domain.TrendFlat
	}

	var pct float64
	if *overall != 0 {
		pct = (*recent - *overall) / *overall
	}

	switch {
	case pct > trendThreshold:
		return domain.TrendUp
	case pct < -trendThreshold:
		return domain.TrendDown
	default:
		return domain.TrendFlat
	}
}

// rankThemes tallies theme occurrences across issues and returns the top n,
// ordered by descending count with ties broken by first-encountered order.
func rankThemes(issues []domain.Issue, n int) []string {
	counts := make(map[string]int)
	order := []string{}

	for _, issue := range issues {
		for _, theme := range issue.Themes {
			key := strings.ToLower(theme)
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}

// buildSummaryText composes the narrative from template sentences, each
// conditionally included, joined by single spaces in fixed order.
func buildSummaryText(overview *domain.OverviewStats, recentAvg *float64, trend string, topThemes []string) string {
	parts := []string{}

	if overview.TotalReviews > 0 && overview.AvgRating != nil {
		parts = append(parts, fmt.Sprintf(
			"You have %d total reviews with an average rating of %.1f ★.",
			overview.TotalReviews, *overview.AvgRating,
		))
	}

	if recentAvg != nil && trend != domain.TrendFlat {
		parts = append(parts, fmt.Sprintf(
			"In the selected period your average rating is %.1f ★, trending %s versus your overall average.",
			*recentAvg, trend,
		))
	}

	if len(topThemes) > 0 {
		parts = append(parts, fmt.Sprintf(
			"Guests are most often mentioning: %s.",
			strings.Join(topThemes, ", "),
		))
	}

	if len(parts) == 0 {
		return "Not enough data yet to build a summary."
	}
	return strings.Join(parts, " ")
}

// buildHighlights composes the short highlight lines: the trend line is
// always present, themes and the negative-review call-to-action only when
// applicable.
func buildHighlights(overview *domain.OverviewStats, trend string, topThemes []string) []string {
	highlights := []string{}

	switch trend {
	case domain.TrendUp:
		highlights = append(highlights, "Rating trend: Up vs overall average.")
	case domain.TrendDown:
		highlights = append(highlights, "Rating trend: Down vs overall average.")
	default:
		highlights = append(highlights, "Rating trend: Flat vs overall average.")
	}

	if len(topThemes) > 0 {
		highlights = append(highlights, fmt.Sprintf("Top themes: %s.", strings.Join(topThemes, ", ")))
	}

	if overview.NegativeReviews > 0 {
		highlights = append(highlights, fmt.Sprintf(
			"%d negative reviews so far; focus on resolving these quickly.",
			overview.NegativeReviews,
		))
	}

	return highlights
}
