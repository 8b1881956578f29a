package models

import "context"

// Narrator is the interface all generative-AI integrations implement.
// Callers inject this interface, never a concrete provider. A Narrator
// receives only the numeric shape of a summary, never raw records.
type Narrator interface {
	// Narrate produces free-text report sections from aggregate statistics.
	Narrate(ctx context.Context, stats ReportStats) (string, error)
	// Name returns the provider identifier (e.g., "ollama", "openai").
	Name() string
	// Model returns the model identifier used by the provider.
	Model() string
}

// ReportStats is the numeric projection of a Summary handed to a Narrator.
type ReportStats struct {
	TotalCount     int            `json:"total_count"`
	SeverityCounts map[string]int `json:"severity_counts"`
	TopPatterns    []PatternCount `json:"top_patterns"`
	Span           Span           `json:"span"`
}

// StatsFromSummary projects a Summary onto its numeric fields. Critical
// records are deliberately excluded: raw messages never leave the process.
func StatsFromSummary(s Summary) ReportStats {
	return ReportStats{
		TotalCount:     s.TotalCount,
		SeverityCounts: s.SeverityCounts,
		TopPatterns:    s.TopPatterns,
		Span:           s.Span,
	}
}
