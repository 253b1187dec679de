package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/VisheshJ2007/StoreSight/internal/domain"
	pkgkafka "github.com/VisheshJ2007/StoreSight/pkg/kafka"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewCreated   = "storesight.review.created"
	TopicReviewsImported = "storesight.reviews.imported"
)

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from this service.
const SourceReviewsService = "reviews-service"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID             string   `json:"id"`
	StoreID        int64    `json:"store_id"`
	Rating         *float64 `json:"rating"`
	Source         string   `json:"source"`
	SentimentLabel *string  `json:"sentiment_label"`
}

// ReviewsImportedData is the payload for a reviews.imported event.
type ReviewsImportedData struct {
	StoreID      int64 `json:"store_id"`
	RowsInserted int   `json:"rows_inserted"`
	SkippedRows  int   `json:"skipped_rows"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the reviews service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:             review.ID,
		StoreID:        review.StoreID,
		Rating:         review.Rating,
		Source:         review.Source,
		SentimentLabel: review.SentimentLabel,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.ID, AggregateTypeReview, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.Int64("store_id", review.StoreID),
	)

	return nil
}

// PublishReviewsImported publishes a reviews.imported event after a bulk import.
func (p *Producer) PublishReviewsImported(ctx context.Context, storeID int64, inserted, skipped int) error {
	data := ReviewsImportedData{
		StoreID:      storeID,
		RowsInserted: inserted,
		SkippedRows:  skipped,
	}

	event, err := pkgkafka.NewEvent(TopicReviewsImported, fmt.Sprintf("%d", storeID), AggregateTypeReview, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create reviews.imported event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewsImported, event); err != nil {
		return fmt.Errorf("publish reviews.imported event: %w", err)
	}

	return nil
}
