package domain

import "time"

// Sentiment label constants.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// DefaultSource is used when a review arrives without a source channel.
const DefaultSource = "Unknown"

// Review represents a single customer feedback record tied to a store.
// Reviews are immutable once stored; they are only ever inserted, never
// updated in place. Rating, SentimentScore, and SentimentLabel are nil when
// absent; absence is meaningful and must not collapse to zero.
type Review struct {
	ID             string   `json:"id"`
	StoreID        int64    `json:"storeId"`
	Rating         *float64 `json:"rating"`
	Source         string   `json:"source"`
	SentimentScore *float64 `json:"sentimentScore"`
	SentimentLabel *string  `json:"sentimentLabel"`
	Text           string   `json:"text"`
	// CreatedAt's zero value means "not supplied"; the store assigns
	// ingestion time on insert.
	CreatedAt time.Time `json:"createdAt"`
}

// DeriveSentiment maps a rating onto a sentiment score and label using fixed
// thresholds. A nil rating yields nil score and label.
//
//	rating >= 4.5          -> 0.9, Positive
//	4.0 <= rating < 4.5    -> 0.5, Positive
//	rating <= 2.5          -> -0.6, Negative
//	2.5 < rating < 4.0     -> 0.0, Neutral
func DeriveSentiment(rating *float64) (*float64, *string) {
	if rating == nil {
		return nil, nil
	}

	var (
		score float64
		label string
	)
	switch r := *rating; {
	case r >= 4.5:
		score, label = 0.9, SentimentPositive
	case r >= 4.0:
		score, label = 0.5, SentimentPositive
	case r <= 2.5:
		score, label = -0.6, SentimentNegative
	default:
		score, label = 0.0, SentimentNeutral
	}
	return &score, &label
}

// ApplySentiment fills in derived sentiment when the review carries none.
// An explicitly supplied score or label is never overwritten; derivation only
// runs when both are absent and a rating is present.
func (r *Review) ApplySentiment() {
	if r.SentimentScore != nil || r.SentimentLabel != nil || r.Rating == nil {
		return
	}
	r.SentimentScore, r.SentimentLabel = DeriveSentiment(r.Rating)
}

// OverviewStats is the all-time aggregate for a store. Computed on demand,
// never persisted. AvgRating and the timestamps are nil for a store with no
// reviews.
type OverviewStats struct {
	StoreID         int64      `json:"storeId"`
	TotalReviews    int        `json:"totalReviews"`
	AvgRating       *float64   `json:"avgRating"`
	PositiveReviews int        `json:"positiveReviews"`
	NegativeReviews int        `json:"negativeReviews"`
	FirstReviewAt   *time.Time `json:"firstReviewAt"`
	LastReviewAt    *time.Time `json:"lastReviewAt"`
}

// MetricPoint is one calendar day of review metrics. Days with zero reviews
// are omitted from metric series rather than zero-filled.
type MetricPoint struct {
	Date         string   `json:"date"`
	ReviewCount  int      `json:"reviewCount"`
	AvgRating    *float64 `json:"avgRating"`
	AvgSentiment *float64 `json:"avgSentiment"`
}

// Issue is a review flagged as needing attention (rating <= 3 or negative
// sentiment), enriched with themes derived from its text on read.
type Issue struct {
	Review
	Themes []string `json:"themes"`
}

// IssueRatingThreshold flags reviews at or below this rating as issues.
const IssueRatingThreshold = 3.0

// Trend classifications for a store's recent rating versus its overall average.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// SummaryStats is the stats block carried in a Summary.
type SummaryStats struct {
	TotalReviews    int        `json:"totalReviews"`
	AvgRating       *float64   `json:"avgRating"`
	RecentAvgRating *float64   `json:"recentAvgRating"`
	PositiveReviews int        `json:"positiveReviews"`
	NegativeReviews int        `json:"negativeReviews"`
	TopThemes       []string   `json:"topThemes"`
	FirstReviewAt   *time.Time `json:"firstReviewAt"`
	LastReviewAt    *time.Time `json:"lastReviewAt"`
}

// Summary combines overview, metrics, and issues into a trend classification,
// ranked theme list, and narrative text. Request-scoped, never persisted.
type Summary struct {
	StoreID     int64        `json:"storeId"`
	Range       string       `json:"range"`
	SummaryText string       `json:"summaryText"`
	Highlights  []string     `json:"highlights"`
	Stats       SummaryStats `json:"stats"`
}
