package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/VisheshJ2007/StoreSight/internal/service"
	apperrors "github.com/VisheshJ2007/StoreSight/pkg/errors"
)

// maxUploadSize bounds CSV uploads and JSON bodies.
const maxUploadSize = 10 << 20 // 10 MB

// StoreHandler handles HTTP requests for store review and analytics endpoints.
type StoreHandler struct {
	reviews   *service.ReviewService
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

// NewStoreHandler creates a new store HTTP handler.
func NewStoreHandler(reviews *service.ReviewService, analytics *service.AnalyticsService, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		reviews:   reviews,
		analytics: analytics,
		logger:    logger,
	}
}

// --- Responses ---

type errorBody struct {
	Error errorResponse `json:"error"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createReviewResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type importResponse struct {
	Message      string `json:"message"`
	RowsInserted int    `json:"rowsInserted"`
	SkippedRows  int    `json:"skippedRows"`
}

// --- Handlers ---

// CreateReview handles POST /stores/{storeId}/reviews. The body is any JSON
// object; field names are resolved through the alias table before storage.
func (h *StoreHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	review, err := h.reviews.Insert(r.Context(), storeID, raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createReviewResponse{
		Message: "review created",
		ID:      review.ID,
	})
}

// UploadCSV handles POST /stores/{storeId}/reviews/upload-csv. Expects a
// multipart form with the CSV under the "file" field.
func (h *StoreHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: errorResponse{Code: "INVALID_INPUT", Message: "invalid multipart form: " + err.Error()},
		})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: errorResponse{Code: "INVALID_INPUT", Message: "csv file is required under the \"file\" field"},
		})
		return
	}
	defer file.Close()

	result, err := h.reviews.ImportCSV(r.Context(), storeID, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, importResponse{
		Message:      "import complete",
		RowsInserted: result.RowsInserted,
		SkippedRows:  result.SkippedRows,
	})
}

// ListReviews handles GET /stores/{storeId}/reviews.
func (h *StoreHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 0)
	reviews, err := h.reviews.List(r.Context(), storeID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}

// GetOverview handles GET /stores/{storeId}/overview.
func (h *StoreHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	stats, err := h.analytics.GetOverview(r.Context(), storeID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// GetMetrics handles GET /stores/{storeId}/metrics.
func (h *StoreHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	metrics, err := h.analytics.GetMetrics(r.Context(), storeID, r.URL.Query().Get("range"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

// GetIssues handles GET /stores/{storeId}/issues.
func (h *StoreHandler) GetIssues(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 0)
	issues, err := h.analytics.GetIssues(r.Context(), storeID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, issues)
}

// GetSummary handles GET /stores/{storeId}/summary.
func (h *StoreHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.storeID(w, r)
	if !ok {
		return
	}

	summary, err := h.analytics.GetSummary(r.Context(), storeID, r.URL.Query().Get("range"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// --- Helpers ---

// storeID parses the {storeId} path parameter. Invalid or non-positive ids
// are rejected before any store access happens.
func (h *StoreHandler) storeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "storeId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: errorResponse{Code: "INVALID_INPUT", Message: "store id must be a positive integer"},
		})
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func (h *StoreHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			h.logError(r, err)
		}
		writeJSON(w, appErr.Status, errorBody{
			Error: errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = "NOT_FOUND"
		message = "resource not found"
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		code = "STORE_UNAVAILABLE"
		message = "review store is unreachable"
		status = http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrInvalidInput):
		code = "INVALID_INPUT"
		message = err.Error()
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logError(r, err)
	}

	writeJSON(w, status, errorBody{
		Error: errorResponse{Code: code, Message: message},
	})
}

func (h *StoreHandler) logError(r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
