package models

import "time"

// Audit event categories derived from the action text of a row.
const (
	CategoryDeletion    = "deletion"
	CategoryMovement    = "movement"
	CategoryCheckInOut  = "checkinout"
	CategoryReplacement = "replacement"
	CategoryOther       = "other"
)

// AuditRecord is one normalized unit derived from a row of tabular audit data.
// Timestamp follows the same rule as Record: nil means unrecognized, never
// a substituted default.
type AuditRecord struct {
	ID        int        `json:"id"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Actor     string     `json:"actor"`
	Action    string     `json:"action"`
	Target    string     `json:"target"`
	Location  string     `json:"location"`
	Detail    string     `json:"detail"`
	Raw       string     `json:"raw"`
}
