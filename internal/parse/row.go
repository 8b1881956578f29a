package parse

import (
	"strings"

	"github.com/kavyamurthy/logscope/internal/timestamp"
	"github.com/kavyamurthy/logscope/pkg/models"
)

// DefaultKeyEventLimit bounds the priority list returned by KeyEvents.
const DefaultKeyEventLimit = 50

// HeaderMap maps the canonical audit fields onto column indices of one
// export. An index of -1 means the export has no such column; lookups then
// yield the empty string, never an error. Detail may span several columns.
type HeaderMap struct {
	Timestamp int
	Actor     int
	Action    int
	Target    int
	Location  int
	Detail    []int
}

// Column-name synonyms, lowercased. Matching is by exact header name after
// trimming and lowercasing.
var headerSynonyms = map[string][]string{
	"timestamp": {"timestamp", "time", "date", "datetime", "event time", "occurred", "modified"},
	"actor":     {"actor", "user", "username", "user name", "performed by", "modified by", "author"},
	"action":    {"action", "activity", "operation", "event", "event type"},
	"target":    {"target", "file", "filename", "file name", "document", "item", "object", "name"},
	"location":  {"location", "folder", "directory", "path", "site", "container"},
	"detail":    {"detail", "details", "description", "notes", "comment", "comments", "reason", "info"},
}

// NewHeaderMap builds a HeaderMap from a header row. Unrecognized columns are
// ignored; unmatched fields stay -1.
func NewHeaderMap(header []string) HeaderMap {
	hm := HeaderMap{Timestamp: -1, Actor: -1, Action: -1, Target: -1, Location: -1}
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		switch {
		case hm.Timestamp < 0 && matchesSynonym("timestamp", name):
			hm.Timestamp = i
		case hm.Actor < 0 && matchesSynonym("actor", name):
			hm.Actor = i
		case hm.Action < 0 && matchesSynonym("action", name):
			hm.Action = i
		case hm.Target < 0 && matchesSynonym("target", name):
			hm.Target = i
		case hm.Location < 0 && matchesSynonym("location", name):
			hm.Location = i
		case matchesSynonym("detail", name):
			hm.Detail = append(hm.Detail, i)
		}
	}
	return hm
}

func matchesSynonym(field, name string) bool {
	for _, s := range headerSynonyms[field] {
		if name == s {
			return true
		}
	}
	return false
}

// SplitRow splits one comma-delimited row respecting double-quote-delimited
// fields: a quote toggles literal mode, a comma inside quotes is not a
// delimiter, and quote characters are stripped from the final value.
func SplitRow(row string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false
	for _, r := range row {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(b.String()))
	return fields
}

// RowClassifier extracts actor, action, target, location and detail from one
// delimited audit row.
type RowClassifier struct {
	rec timestamp.Recognizer
}

// NewRowClassifier returns a classifier using the given timestamp policy.
func NewRowClassifier(rec timestamp.Recognizer) *RowClassifier {
	return &RowClassifier{rec: rec}
}

// Classify turns one row into an AuditRecord. The second return is false only
// for a blank row. Missing columns default to the empty string.
func (c *RowClassifier) Classify(row string, hm HeaderMap, ordinal int) (*models.AuditRecord, bool) {
	if strings.TrimSpace(row) == "" {
		return nil, false
	}

	fields := SplitRow(row)

	rec := &models.AuditRecord{
		ID:       ordinal,
		Actor:    fieldAt(fields, hm.Actor),
		Action:   fieldAt(fields, hm.Action),
		Target:   fieldAt(fields, hm.Target),
		Location: fieldAt(fields, hm.Location),
		Raw:      row,
	}

	if raw := fieldAt(fields, hm.Timestamp); raw != "" {
		if ts, ok := c.rec.Recognize(raw); ok {
			rec.Timestamp = &ts
		}
	}

	// Detail is the non-empty join, in fixed column order.
	var parts []string
	for _, idx := range hm.Detail {
		if v := fieldAt(fields, idx); v != "" {
			parts = append(parts, v)
		}
	}
	rec.Detail = strings.Join(parts, " | ")

	return rec, true
}

func fieldAt(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

// Category keyword rules, tried in order; first hit wins.
var categoryRules = []struct {
	category string
	keywords []string
}{
	{models.CategoryDeletion, []string{"delete", "purge", "remove"}},
	{models.CategoryMovement, []string{"move", "export", "copy", "sent to", "relocat"}},
	{models.CategoryCheckInOut, []string{"check", "free", "lock"}},
	{models.CategoryReplacement, []string{"replace", "version", "overwrite"}},
}

// Categorize derives the category of a record from its action text and
// detail. Computed on demand, never stored on the record.
func Categorize(rec models.AuditRecord) string {
	text := strings.ToLower(rec.Action + " " + rec.Detail)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return models.CategoryOther
}

var keyActionWords = []string{"delete", "purge", "remove", "move", "replace"}
var keyDetailWords = []string{"error", "failed", "corrupt", "missing"}

// KeyEvents flags records of high investigative value: explicit deletion,
// move or replace wording, a "checked out" with no later "checked in" for
// the same target, or detail text suggesting damage. A record may appear in
// a category bucket and here at the same time. The result preserves sequence
// order and is capped at limit (DefaultKeyEventLimit when limit <= 0).
func KeyEvents(records []models.AuditRecord, limit int) []models.AuditRecord {
	if limit <= 0 {
		limit = DefaultKeyEventLimit
	}

	// Records arrive newest first, so a single pass sees each check-in
	// before the older checkouts it closes. A check-in never vouches for a
	// checkout that happened after it.
	checkedIn := make(map[string]bool)
	var events []models.AuditRecord
	for _, r := range records {
		if len(events) < limit && isKeyEvent(r, checkedIn) {
			events = append(events, r)
		}
		if strings.Contains(strings.ToLower(r.Action), "checked in") {
			checkedIn[strings.ToLower(r.Target)] = true
		}
	}
	return events
}

func isKeyEvent(r models.AuditRecord, checkedIn map[string]bool) bool {
	action := strings.ToLower(r.Action)
	for _, kw := range keyActionWords {
		if strings.Contains(action, kw) {
			return true
		}
	}
	if strings.Contains(action, "checked out") && !checkedIn[strings.ToLower(r.Target)] {
		return true
	}
	detail := strings.ToLower(r.Detail)
	for _, kw := range keyDetailWords {
		if strings.Contains(detail, kw) {
			return true
		}
	}
	return false
}
