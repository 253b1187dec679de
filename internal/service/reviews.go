package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/VisheshJ2007/StoreSight/internal/domain"
	"github.com/VisheshJ2007/StoreSight/internal/event"
	"github.com/VisheshJ2007/StoreSight/internal/ingest"
	"github.com/VisheshJ2007/StoreSight/internal/repository"
	apperrors "github.com/VisheshJ2007/StoreSight/pkg/errors"
)

// DefaultListLimit caps review listings when the caller does not ask for a
// specific limit.
const DefaultListLimit = 50

// ReviewService implements review ingestion: single-record inserts and bulk
// CSV imports. Input records are normalized, sentiment is derived when
// absent, and rows without meaningful content are skipped on bulk import.
type ReviewService struct {
	repo     repository.ReviewRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review ingestion service.
func NewReviewService(repo repository.ReviewRepository, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// ImportResult reports the outcome of a bulk CSV import. Skipped rows are
// not failures: they lacked both a valid rating and non-whitespace text.
type ImportResult struct {
	RowsInserted int `json:"rowsInserted"`
	SkippedRows  int `json:"skippedRows"`
}

// Insert normalizes and stores a single review for the given store.
// Sentiment is derived from the rating only when no explicit sentiment was
// supplied.
func (s *ReviewService) Insert(ctx context.Context, storeID int64, raw map[string]any) (*domain.Review, error) {
	if storeID <= 0 {
		return nil, apperrors.InvalidInput("store id must be a positive integer")
	}

	review := ingest.Normalize(raw, storeID)
	review.ApplySentiment()

	if _, err := s.repo.Insert(ctx, &review); err != nil {
		return nil, apperrors.Unavailable(err)
	}

	if err := s.producer.PublishReviewCreated(ctx, &review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		// Event publishing never fails the write.
	}

	s.logger.InfoContext(ctx, "review inserted",
		slog.String("review_id", review.ID),
		slog.Int64("store_id", storeID),
		slog.String("source", review.Source),
	)

	return &review, nil
}

// List returns a store's reviews, newest first.
func (s *ReviewService) List(ctx context.Context, storeID int64, limit int) ([]domain.Review, error) {
	if storeID <= 0 {
		return nil, apperrors.InvalidInput("store id must be a positive integer")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	reviews, err := s.repo.ListByStore(ctx, storeID, limit)
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}
	return reviews, nil
}

// ImportCSV reads CSV review records and inserts them sequentially, in file
// order. Rows with neither a valid numeric rating nor non-whitespace text
// are skipped and counted separately. Inserts are not atomic across rows: a
// store failure partway through leaves prior rows committed.
func (s *ReviewService) ImportCSV(ctx context.Context, storeID int64, csvData io.Reader) (*ImportResult, error) {
	if storeID <= 0 {
		return nil, apperrors.InvalidInput("store id must be a positive integer")
	}

	records, err := ingest.ReadCSVRecords(csvData)
	if err != nil {
		return nil, apperrors.InvalidInput("malformed CSV: " + err.Error())
	}

	result := &ImportResult{}
	for _, raw := range records {
		review := ingest.Normalize(raw, storeID)
		if !ingest.HasContent(review) {
			result.SkippedRows++
			continue
		}
		review.ApplySentiment()

		if _, err := s.repo.Insert(ctx, &review); err != nil {
			return nil, apperrors.Unavailable(err)
		}
		result.RowsInserted++
	}

	if err := s.producer.PublishReviewsImported(ctx, storeID, result.RowsInserted, result.SkippedRows); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish reviews.imported event",
			slog.Int64("store_id", storeID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "csv import finished",
		slog.Int64("store_id", storeID),
		slog.Int("rows_inserted", result.RowsInserted),
		slog.Int("skipped_rows", result.SkippedRows),
	)

	return result, nil
}
