package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kavyamurthy/logscope/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateUpload(ctx context.Context, u *models.Upload) error
	GetUpload(ctx context.Context, id uuid.UUID) (*models.Upload, error)
	GetUploadByFingerprint(ctx context.Context, fingerprint string) (*models.Upload, error)
	ListUploads(ctx context.Context, filter UploadFilter) ([]*models.Upload, int, error)

	CreateReport(ctx context.Context, r *models.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListReportsByUpload(ctx context.Context, uploadID uuid.UUID) ([]*models.Report, error)
}

// UploadFilter narrows and pages ListUploads. Zero values mean no filter;
// Limit defaults to 50.
type UploadFilter struct {
	Kind  string
	Page  int
	Limit int
}
