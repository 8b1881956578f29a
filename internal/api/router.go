package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/kavyamurthy/logscope/internal/api/middleware"
	"github.com/kavyamurthy/logscope/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler   http.HandlerFunc
	AnalyzeHandler  http.HandlerFunc
	TimelineHandler http.HandlerFunc
	ExportHandler   http.HandlerFunc
	ReportHandler   http.HandlerFunc
	ListUploads     http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/analyze", orNotImplemented(deps.AnalyzeHandler))
		r.Post("/api/v1/timeline", orNotImplemented(deps.TimelineHandler))
		r.Post("/api/v1/export", orNotImplemented(deps.ExportHandler))
		r.Post("/api/v1/report", orNotImplemented(deps.ReportHandler))
		r.Get("/api/v1/uploads", orNotImplemented(deps.ListUploads))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
