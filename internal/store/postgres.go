package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kavyamurthy/logscope/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Uploads ---

func (s *PostgresStore) CreateUpload(ctx context.Context, u *models.Upload) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO uploads (id, name, kind, size_bytes, line_count, record_count, error_count, fingerprint, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.Kind, u.SizeBytes, u.LineCount, u.RecordCount, u.ErrorCount, u.Fingerprint, u.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create upload: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUpload(ctx context.Context, id uuid.UUID) (*models.Upload, error) {
	var u models.Upload
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, kind, size_bytes, line_count, record_count, error_count, fingerprint, created_at
		 FROM uploads WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Kind, &u.SizeBytes, &u.LineCount, &u.RecordCount, &u.ErrorCount, &u.Fingerprint, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get upload: %w", err)
	}
	return &u, nil
}

// GetUploadByFingerprint returns the most recent upload with this
// fingerprint. Re-analyzing the same content creates a new row; the newest
// one reflects the latest analysis.
func (s *PostgresStore) GetUploadByFingerprint(ctx context.Context, fingerprint string) (*models.Upload, error) {
	var u models.Upload
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, kind, size_bytes, line_count, record_count, error_count, fingerprint, created_at
		 FROM uploads WHERE fingerprint = $1 ORDER BY created_at DESC LIMIT 1`, fingerprint,
	).Scan(&u.ID, &u.Name, &u.Kind, &u.SizeBytes, &u.LineCount, &u.RecordCount, &u.ErrorCount, &u.Fingerprint, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get upload by fingerprint: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) ListUploads(ctx context.Context, filter UploadFilter) ([]*models.Upload, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	where := ""
	args := []any{}
	if filter.Kind != "" {
		where = "WHERE kind = $1"
		args = append(args, filter.Kind)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM uploads " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count uploads: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, name, kind, size_bytes, line_count, record_count, error_count, fingerprint, created_at
		 FROM uploads %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*models.Upload
	for rows.Next() {
		var u models.Upload
		if err := rows.Scan(&u.ID, &u.Name, &u.Kind, &u.SizeBytes, &u.LineCount, &u.RecordCount,
			&u.ErrorCount, &u.Fingerprint, &u.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan upload: %w", err)
		}
		uploads = append(uploads, &u)
	}
	return uploads, total, rows.Err()
}

// --- Reports ---

func (s *PostgresStore) CreateReport(ctx context.Context, r *models.Report) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO reports (id, upload_id, provider, model, body, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.UploadID, r.Provider, r.Model, r.Body, r.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var r models.Report
	err := s.pool.QueryRow(ctx,
		`SELECT id, upload_id, provider, model, body, created_at FROM reports WHERE id = $1`, id,
	).Scan(&r.ID, &r.UploadID, &r.Provider, &r.Model, &r.Body, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) ListReportsByUpload(ctx context.Context, uploadID uuid.UUID) ([]*models.Report, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, upload_id, provider, model, body, created_at
		 FROM reports WHERE upload_id = $1 ORDER BY created_at DESC`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.UploadID, &r.Provider, &r.Model, &r.Body, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, &r)
	}
	return reports, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
