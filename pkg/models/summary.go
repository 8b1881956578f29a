package models

import "time"

// Span is the valid-timestamp range of a record sequence. Valid is false when
// no record carried a usable timestamp; Start and End are then zero values,
// never the current time.
type Span struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Valid bool      `json:"valid"`
}

// PatternCount is one recurring normalized message pattern and how often it
// occurred among ERROR-level records.
type PatternCount struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// Summary is an immutable snapshot derived from a record sequence in a single
// pass. CriticalRecords and TopPatterns are bounded lists; SeverityCounts has
// an entry for every known level, zero-filled.
type Summary struct {
	TotalCount      int            `json:"total_count"`
	SeverityCounts  map[string]int `json:"severity_counts"`
	CriticalRecords []Record       `json:"critical_records"`
	TopPatterns     []PatternCount `json:"top_patterns"`
	Span            Span           `json:"span"`
}

// ErrorCount returns the ERROR-level count.
func (s Summary) ErrorCount() int { return s.SeverityCounts[SeverityError] }

// WarnCount returns the WARN-level count.
func (s Summary) WarnCount() int { return s.SeverityCounts[SeverityWarn] }
