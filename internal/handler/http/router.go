package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VisheshJ2007/StoreSight/internal/service"
	"github.com/VisheshJ2007/StoreSight/pkg/health"
	"github.com/VisheshJ2007/StoreSight/pkg/middleware"
)

// NewRouter creates a chi router with all review and analytics routes registered.
func NewRouter(
	reviews *service.ReviewService,
	analytics *service.AnalyticsService,
	healthHandler *health.Handler,
	cors middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cors))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storesight"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Store API endpoints
	storeHandler := NewStoreHandler(reviews, analytics, logger)

	r.Route("/stores/{storeId}", func(r chi.Router) {
		r.Post("/reviews", storeHandler.CreateReview)
		r.Post("/reviews/upload-csv", storeHandler.UploadCSV)
		r.Get("/reviews", storeHandler.ListReviews)
		r.Get("/overview", storeHandler.GetOverview)
		r.Get("/metrics", storeHandler.GetMetrics)
		r.Get("/issues", storeHandler.GetIssues)
		r.Get("/summary", storeHandler.GetSummary)
	})

	return r
}
