package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kavyamurthy/logscope/pkg/models"
)

// Store is the slice of the metadata store the report service needs.
type Store interface {
	CreateReport(ctx context.Context, r *models.Report) error
}

// Service generates and persists report documents.
type Service struct {
	narrator models.Narrator
	store    Store
	timeout  time.Duration
}

// NewService creates a report Service. timeout bounds each narrator call.
func NewService(narrator models.Narrator, store Store, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{narrator: narrator, store: store, timeout: timeout}
}

// Generate builds the report document for an upload's summary and stores it.
// A narrator failure degrades to a statistics-only document rather than
// failing the report; the error is logged and the document notes the absence.
func (s *Service) Generate(ctx context.Context, uploadID uuid.UUID, summary models.Summary) (*models.Report, error) {
	narrateCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sections, err := s.narrator.Narrate(narrateCtx, models.StatsFromSummary(summary))
	if err != nil {
		slog.Warn("narrator failed, generating statistics-only report",
			"provider", s.narrator.Name(), "error", err)
		sections = ""
	}

	rep := &models.Report{
		ID:        uuid.New(),
		UploadID:  uploadID,
		Provider:  s.narrator.Name(),
		Model:     s.narrator.Model(),
		Body:      Build(summary, sections),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateReport(ctx, rep); err != nil {
		return nil, fmt.Errorf("storing report: %w", err)
	}
	return rep, nil
}
