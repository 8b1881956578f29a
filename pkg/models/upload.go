package models

import (
	"time"

	"github.com/google/uuid"
)

// Upload kinds.
const (
	UploadKindLog   = "log"
	UploadKindAudit = "audit"
)

// Upload is the persisted metadata row for one analyzed input. The raw text
// itself is never stored; Fingerprint ties the row to cached derived results.
type Upload struct {
	ID          uuid.UUID `db:"id"           json:"id"`
	Name        string    `db:"name"         json:"name"`
	Kind        string    `db:"kind"         json:"kind"`
	SizeBytes   int64     `db:"size_bytes"   json:"size_bytes"`
	LineCount   int       `db:"line_count"   json:"line_count"`
	RecordCount int       `db:"record_count" json:"record_count"`
	ErrorCount  int       `db:"error_count"  json:"error_count"`
	Fingerprint string    `db:"fingerprint"  json:"fingerprint"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}

// Report is a persisted report document generated for an upload.
type Report struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	UploadID  uuid.UUID `db:"upload_id"  json:"upload_id"`
	Provider  string    `db:"provider"   json:"provider"`
	Model     string    `db:"model"      json:"model"`
	Body      string    `db:"body"       json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
