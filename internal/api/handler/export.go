package handler

import (
	"net/http"
	"strings"

	"github.com/kavyamurthy/logscope/internal/api/response"
	"github.com/kavyamurthy/logscope/internal/export"
)

// NewExportHandler returns an http.HandlerFunc for POST /api/v1/export:
// log text in, CSV attachment out.
func NewExportHandler(parser LogParser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeAnalyzeRequest(w, r)
		if !ok {
			return
		}

		records, err := parser.ParseLog(req.Name, req.Content)
		if err != nil {
			if !writeIngestError(w, err) {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Parse failed", nil)
			}
			return
		}

		body, err := export.Bytes(records)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Export failed", nil)
			return
		}

		filename := strings.TrimSuffix(req.Name, ".json")
		filename = strings.TrimSuffix(filename, ".log")
		filename = strings.TrimSuffix(filename, ".txt")
		filename = strings.TrimSuffix(filename, ".out")
		response.Attachment(w, filename+".csv", "text/csv", body)
	}
}
