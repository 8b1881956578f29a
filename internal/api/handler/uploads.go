package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kavyamurthy/logscope/internal/api/response"
	"github.com/kavyamurthy/logscope/internal/store"
	"github.com/kavyamurthy/logscope/pkg/models"
)

// UploadLister pages through stored upload metadata.
type UploadLister interface {
	ListUploads(ctx context.Context, filter store.UploadFilter) ([]*models.Upload, int, error)
}

// NewListUploadsHandler returns an http.HandlerFunc for GET /api/v1/uploads.
// Query params: kind, page, limit.
func NewListUploadsHandler(st UploadLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.UploadFilter{
			Kind:  r.URL.Query().Get("kind"),
			Page:  queryInt(r, "page", 1),
			Limit: queryInt(r, "limit", 50),
		}
		if filter.Kind != "" && filter.Kind != models.UploadKindLog && filter.Kind != models.UploadKindAudit {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "kind must be log or audit", nil)
			return
		}

		uploads, total, err := st.ListUploads(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list uploads", nil)
			return
		}
		if uploads == nil {
			uploads = []*models.Upload{}
		}

		response.Collection(w, uploads, response.PaginationMeta{
			Page:    filter.Page,
			Limit:   filter.Limit,
			Total:   total,
			HasNext: filter.Page*filter.Limit < total,
		})
	}
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
