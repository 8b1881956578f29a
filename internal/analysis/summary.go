// Package analysis reduces record sequences into aggregate summaries and
// time-bucketed series for charting. All functions are single-pass over
// in-memory data and never perform I/O.
package analysis

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kavyamurthy/logscope/internal/timestamp"
	"github.com/kavyamurthy/logscope/pkg/models"
)

// Bounded-list caps. Policy defaults; override via Limits.
const (
	DefaultCriticalLimit   = 10
	DefaultTopPatternLimit = 5
	patternMaxLen          = 80
)

// Limits bounds the shortlists a Summary carries.
type Limits struct {
	Critical    int
	TopPatterns int
}

// DefaultLimits returns the default shortlist caps.
func DefaultLimits() Limits {
	return Limits{Critical: DefaultCriticalLimit, TopPatterns: DefaultTopPatternLimit}
}

// Messages containing any of these mark a record as critical regardless of
// its severity level.
var criticalKeywords = []string{
	"critical", "fatal", "exception", "null pointer", "out of memory",
	"stack trace", "traceback", "panic", "abort",
}

// Normalization regexes compiled once at package init.
var (
	reEmbeddedTime = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:?\d{2})?`)
	reBracketed    = regexp.MustCompile(`\[[^\[\]]*\]`)
	reDigitRun     = regexp.MustCompile(`\d+`)
	reWhitespace   = regexp.MustCompile(`\s+`)
)

// Summarize reduces a record sequence into an immutable Summary in a single
// pass. The span is computed only over records whose timestamp is present and
// inside the recognizer's year bound; with no such record the span is the
// zero sentinel, never the current time.
func Summarize(records []models.Record, rec timestamp.Recognizer, limits Limits) models.Summary {
	if limits.Critical <= 0 {
		limits.Critical = DefaultCriticalLimit
	}
	if limits.TopPatterns <= 0 {
		limits.TopPatterns = DefaultTopPatternLimit
	}

	counts := make(map[string]int, len(models.Severities))
	for _, level := range models.Severities {
		counts[level] = 0
	}

	patterns := make(map[string]int)
	var critical []models.Record
	var span models.Span

	for _, r := range records {
		counts[r.Severity]++

		if len(critical) < limits.Critical && isCritical(r) {
			critical = append(critical, r)
		}

		if r.Severity == models.SeverityError {
			patterns[NormalizePattern(r.Message)]++
		}

		if rec.Valid(r.Timestamp) {
			ts := *r.Timestamp
			if !span.Valid {
				span = models.Span{Start: ts, End: ts, Valid: true}
				continue
			}
			if ts.Before(span.Start) {
				span.Start = ts
			}
			if ts.After(span.End) {
				span.End = ts
			}
		}
	}

	return models.Summary{
		TotalCount:      len(records),
		SeverityCounts:  counts,
		CriticalRecords: critical,
		TopPatterns:     topPatterns(patterns, limits.TopPatterns),
		Span:            span,
	}
}

func isCritical(r models.Record) bool {
	if r.Severity == models.SeverityError {
		return true
	}
	msg := strings.ToLower(r.Message)
	for _, kw := range criticalKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// NormalizePattern reduces a message to a recurrence key: embedded timestamps
// and bracketed tokens are stripped, digit runs collapse to a placeholder,
// whitespace is squeezed, and the result is truncated.
func NormalizePattern(msg string) string {
	msg = reEmbeddedTime.ReplaceAllString(msg, "")
	msg = reBracketed.ReplaceAllString(msg, "")
	msg = reDigitRun.ReplaceAllString(msg, "<n>")
	msg = reWhitespace.ReplaceAllString(msg, " ")
	msg = strings.ToLower(strings.TrimSpace(msg))
	return truncateString(msg, patternMaxLen)
}

// topPatterns sorts descending by count, breaking ties lexically so output is
// deterministic, and keeps the top n.
func topPatterns(groups map[string]int, n int) []models.PatternCount {
	out := make([]models.PatternCount, 0, len(groups))
	for p, c := range groups {
		out = append(out, models.PatternCount{Pattern: p, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Pattern < out[j].Pattern
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// truncateString truncates s to maxBytes without splitting UTF-8 runes.
func truncateString(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}

// validTimestamps filters records to those with a usable timestamp, and
// returns the min and max. Used by the binner.
func validTimestamps(records []models.Record, rec timestamp.Recognizer) ([]models.Record, time.Time, time.Time) {
	var out []models.Record
	var min, max time.Time
	for _, r := range records {
		if !rec.Valid(r.Timestamp) {
			continue
		}
		ts := *r.Timestamp
		if len(out) == 0 {
			min, max = ts, ts
		} else {
			if ts.Before(min) {
				min = ts
			}
			if ts.After(max) {
				max = ts
			}
		}
		out = append(out, r)
	}
	return out, min, max
}
