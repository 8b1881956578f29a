// Package handler implements the HTTP endpoints. Each handler depends on a
// narrow interface so tests can inject fakes.
package handler

import (
	"context"
	"net/http"

	"github.com/kavyamurthy/logscope/internal/api/response"
)

// Pinger is the dependency health checks probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health.
// Dependency failures degrade the status but never fail the endpoint.
func NewHealthHandler(db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		checks := map[string]string{}

		if db != nil {
			checks["database"] = "ok"
			if err := db.Ping(r.Context()); err != nil {
				checks["database"] = "unreachable"
				status = "degraded"
			}
		}
		if cache != nil {
			checks["cache"] = "ok"
			if err := cache.Ping(r.Context()); err != nil {
				checks["cache"] = "unreachable"
				status = "degraded"
			}
		}

		response.JSON(w, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
