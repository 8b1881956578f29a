// Package timestamp recognizes date-time prefixes in free-form text against a
// small ordered set of accepted grammars. It deliberately has no loose
// fallback: a generic "parse anything" pass turns unrelated numbers into
// dates, so anything outside the accepted grammars is reported unrecognized.
package timestamp

import (
	"regexp"
	"strings"
	"time"
)

// Default year bounds. Candidates outside the bound are rejected as spurious
// numeric matches. Policy, not a domain truth; override via NewRecognizer.
const (
	DefaultMinYear = 2020
	DefaultMaxYear = 2030
)

// matcher is one named grammar: an anchored pattern plus the layouts its
// capture may parse as. Matchers are tried in fixed priority order and
// short-circuit on first success.
type matcher struct {
	name    string
	pattern *regexp.Regexp
	layouts []string
}

var matchers = []matcher{
	{
		name:    "plain",
		pattern: regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(?:\.\d+)?)`),
		layouts: []string{"2006-01-02 15:04:05.999999999", "2006-01-02 15:04:05"},
	},
	{
		name:    "iso8601",
		pattern: regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?)`),
		layouts: []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"},
	},
	{
		name:    "bracketed",
		pattern: regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}(?:\.\d+)?)\]`),
		layouts: []string{"2006-01-02 15:04:05.999999999", "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"},
	},
}

// Recognizer parses text against the accepted grammars, rejecting candidates
// whose year falls outside [MinYear, MaxYear].
type Recognizer struct {
	MinYear int
	MaxYear int
}

// NewRecognizer returns a Recognizer with the given year bounds.
func NewRecognizer(minYear, maxYear int) Recognizer {
	return Recognizer{MinYear: minYear, MaxYear: maxYear}
}

// Default returns a Recognizer with the default year bounds.
func Default() Recognizer {
	return Recognizer{MinYear: DefaultMinYear, MaxYear: DefaultMaxYear}
}

// Recognize attempts to parse a timestamp at the start of text.
// The second return is false when nothing was recognized; callers must treat
// that as "no timestamp", never substitute a default.
func (r Recognizer) Recognize(text string) (time.Time, bool) {
	ts, _, ok := r.RecognizePrefix(text)
	return ts, ok
}

// RecognizePrefix is Recognize plus the text remaining after the matched
// grammar, for callers that treat the remainder as the working message.
func (r Recognizer) RecognizePrefix(text string) (time.Time, string, bool) {
	text = strings.TrimSpace(text)
	for _, m := range matchers {
		sub := m.pattern.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		for _, layout := range m.layouts {
			ts, err := time.Parse(layout, sub[1])
			if err != nil {
				continue
			}
			if !r.yearOK(ts) {
				return time.Time{}, text, false
			}
			rest := strings.TrimSpace(text[len(sub[0]):])
			return ts, rest, true
		}
	}
	return time.Time{}, text, false
}

// Valid reports whether ts is usable for span and binning computations:
// non-nil, non-zero, and inside the year bound.
func (r Recognizer) Valid(ts *time.Time) bool {
	if ts == nil || ts.IsZero() {
		return false
	}
	return r.yearOK(*ts)
}

func (r Recognizer) yearOK(ts time.Time) bool {
	y := ts.Year()
	return y >= r.MinYear && y <= r.MaxYear
}
