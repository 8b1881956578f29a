// Package models contains shared data models used across the LogScope codebase.
package models

import (
	"strings"
	"time"
)

// Severity levels, ordered ERROR > WARN > INFO > DEBUG > TRACE by convention.
const (
	SeverityError = "ERROR"
	SeverityWarn  = "WARN"
	SeverityInfo  = "INFO"
	SeverityDebug = "DEBUG"
	SeverityTrace = "TRACE"
)

// Severities lists all levels in descending order of severity.
var Severities = []string{SeverityError, SeverityWarn, SeverityInfo, SeverityDebug, SeverityTrace}

// Record is one normalized unit derived from a line of log text.
// Timestamp is nil when no timestamp was recognized; it is never defaulted
// to the current time or any placeholder.
type Record struct {
	ID        int        `json:"id"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Severity  string     `json:"severity"`
	Message   string     `json:"message"`
	SourceTag string     `json:"source_tag,omitempty"`
	Raw       string     `json:"raw"`
}

// SeverityRank maps a level string to a numeric rank for comparisons.
// Unknown levels rank below TRACE.
func SeverityRank(level string) int {
	switch strings.ToUpper(level) {
	case SeverityError:
		return 4
	case SeverityWarn:
		return 3
	case SeverityInfo:
		return 2
	case SeverityDebug:
		return 1
	case SeverityTrace:
		return 0
	default:
		return -1
	}
}

// NormalizeSeverity folds common aliases onto the canonical level names.
// ERR, FATAL and CRITICAL fold to ERROR; WARNING folds to WARN.
func NormalizeSeverity(word string) string {
	switch strings.ToUpper(word) {
	case "ERR", "FATAL", "CRITICAL", SeverityError:
		return SeverityError
	case "WARNING", SeverityWarn:
		return SeverityWarn
	case SeverityInfo:
		return SeverityInfo
	case SeverityDebug:
		return SeverityDebug
	case SeverityTrace:
		return SeverityTrace
	default:
		return ""
	}
}

// IsSeverityWord reports whether word is a recognized severity keyword or alias.
func IsSeverityWord(word string) bool {
	return NormalizeSeverity(word) != ""
}
