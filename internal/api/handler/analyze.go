package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kavyamurthy/logscope/internal/api/response"
	"github.com/kavyamurthy/logscope/internal/ingest"
	"github.com/kavyamurthy/logscope/internal/parse"
	"github.com/kavyamurthy/logscope/internal/pipeline"
)

// Analyzer runs one full analysis pass.
type Analyzer interface {
	Analyze(ctx context.Context, name, content string) (*pipeline.Result, error)
}

// analyzeRequest is the body for the analysis endpoints: a named input with
// its full text content.
type analyzeRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (analyzeRequest, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return req, false
	}
	if req.Name == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
		return req, false
	}
	return req, true
}

// writeIngestError maps the named parse/ingest failures to API error codes.
// Returns false if the error was not one of them.
func writeIngestError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, ingest.ErrTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", err.Error(), nil)
	case errors.Is(err, ingest.ErrUnsupportedType), errors.Is(err, ingest.ErrUnknownContent):
		response.Error(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", err.Error(), nil)
	case errors.Is(err, ingest.ErrEmptyUpload), errors.Is(err, parse.ErrEmptyInput):
		response.Error(w, http.StatusBadRequest, "EMPTY_INPUT", err.Error(), nil)
	default:
		return false
	}
	return true
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/analyze.
func NewAnalyzeHandler(svc Analyzer) http.HandlerFunc {
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

		response.JSON(w, result)
	}
}
