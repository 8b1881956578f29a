package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kavyamurthy/logscope/internal/analysis"
	"github.com/kavyamurthy/logscope/internal/api/middleware"
	"github.com/kavyamurthy/logscope/internal/api/response"
	"github.com/kavyamurthy/logscope/pkg/models"
)

// LogParser parses raw log content into a record sequence.
type LogParser interface {
	ParseLog(name, content string) ([]models.Record, error)
}

// Binner produces a time-bucketed series from records.
type Binner interface {
	Timeline(ctx context.Context, records []models.Record, width time.Duration) (*models.Timeline, error)
}

// NewTimelineHandler returns an http.HandlerFunc for POST /api/v1/timeline.
// interval_seconds <= 0 lets the binner choose a width for the span.
func NewTimelineHandler(parser LogParser, binner Binner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name            string `json:"name"`
			Content         string `json:"content"`
			IntervalSeconds int    `json:"interval_seconds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}

		records, err := parser.ParseLog(req.Name, req.Content)
		if err != nil {
			if !writeIngestError(w, err) {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Parse failed", nil)
			}
			return
		}

		// Scope stale-input supersession to the caller: one client's request
		// must never 409 another's.
		ctx := r.Context()
		if key, ok := middleware.ClientKey(r); ok {
			ctx = analysis.WithSession(ctx, key)
		}

		width := time.Duration(req.IntervalSeconds) * time.Second
		tl, err := binner.Timeline(ctx, records, width)
		if err != nil {
			switch {
			case errors.Is(err, analysis.ErrNoChartableData):
				response.Error(w, http.StatusUnprocessableEntity,
					"NO_CHARTABLE_DATA", "No records with valid timestamps to chart", nil)
			case errors.Is(err, analysis.ErrStaleInput):
				response.Error(w, http.StatusConflict,
					"STALE_INPUT", "A newer input superseded this request", nil)
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				response.Error(w, http.StatusRequestTimeout, "CANCELLED", "Request cancelled", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Timeline failed", nil)
			}
			return
		}

		response.JSON(w, tl)
	}
}
