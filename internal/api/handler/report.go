package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/kavyamurthy/logscope/internal/api/response"
	"github.com/kavyamurthy/logscope/pkg/models"
)

// Reporter generates and persists a report document.
type Reporter interface {
	Generate(ctx context.Context, uploadID uuid.UUID, summary models.Summary) (*models.Report, error)
}

// NewReportHandler returns an http.HandlerFunc for POST /api/v1/report:
// analyze the input, then narrate and store the report document.
func NewReportHandler(svc Analyzer, reporter Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeAnalyzeRequest(w, r)
		if !ok {
			return
		}

		result, err := svc.Analyze(r.Context(), req.Name, req.Content)
		if err != nil {
			if !writeIngestError(w, err) {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Analysis failed", nil)
			}
			return
		}
		if result.Summary == nil {
			response.Error(w, http.StatusUnprocessableEntity,
				"NOT_A_LOG", "Reports are generated for log inputs only", nil)
			return
		}

		rep, err := reporter.Generate(r.Context(), result.Upload.ID, *result.Summary)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Report generation failed", nil)
			return
		}

		response.Created(w, rep)
	}
}
