// Package parse turns raw log text and CSV audit exports into normalized
// record sequences. Classification is heuristic: an explicit ordered list of
// matchers tried in fixed priority order, short-circuiting on first success.
// Malformed-but-present input never fails; missing fields stay unset.
package parse

import (
	"regexp"
	"strings"
	"time"

	"github.com/kavyamurthy/logscope/internal/timestamp"
	"github.com/kavyamurthy/logscope/pkg/models"
)

var (
	reBracketTok  = regexp.MustCompile(`\[([^\[\]]*)\]`)
	reSeverityBrk = regexp.MustCompile(`(?i)\[\s*(ERROR|ERR|FATAL|CRITICAL|WARNING|WARN|INFO|DEBUG|TRACE)\s*\]`)
	reSeverityCol = regexp.MustCompile(`(?i)\b(ERROR|ERR|FATAL|CRITICAL|WARNING|WARN|INFO|DEBUG|TRACE)\b\s*:`)
	reSeverityAny = regexp.MustCompile(`(?i)\b(ERROR|ERR|FATAL|CRITICAL|WARNING|WARN|INFO|DEBUG|TRACE)\b`)
	reTimeFrag    = regexp.MustCompile(`^[\d\s:./TZ+-]+$`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

// Content-inference keyword families, tried in order when no explicit
// severity marker is present.
var inferredSeverity = []struct {
	level    string
	keywords []string
}{
	{models.SeverityError, []string{"error", "exception", "fail", "fatal", "critical", "panic", "abort", "crash"}},
	{models.SeverityWarn, []string{"warn", "warning", "deprecated", "timeout", "retry"}},
	{models.SeverityDebug, []string{"debug", "trace", "verbose"}},
}

// LineClassifier extracts timestamp, severity, source tag and cleaned message
// from one line of free-form log text.
type LineClassifier struct {
	rec timestamp.Recognizer
}

// NewLineClassifier returns a classifier using the given timestamp policy.
func NewLineClassifier(rec timestamp.Recognizer) *LineClassifier {
	return &LineClassifier{rec: rec}
}

// Classify turns one line into a Record. The second return is false only for
// a blank line. Classify is a pure function of its input: the same line and
// ordinal always produce the same record.
func (c *LineClassifier) Classify(line string, ordinal int) (*models.Record, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, false
	}

	ts, working := c.extractTimestamp(trimmed)

	sourceTag := c.extractSourceTag(working)
	severity, marker := c.extractSeverity(working)

	message := working
	if marker != "" {
		message = strings.Replace(message, marker, " ", 1)
	}
	if sourceTag != "" {
		message = strings.Replace(message, "["+sourceTag+"]", " ", 1)
	}
	message = strings.TrimSpace(reSpaces.ReplaceAllString(message, " "))
	message = strings.TrimLeft(message, ":-, ")
	if message == "" {
		message = working
	}

	return &models.Record{
		ID:        ordinal,
		Timestamp: ts,
		Severity:  severity,
		Message:   message,
		SourceTag: sourceTag,
		Raw:       line,
	}, true
}

// extractTimestamp tries the first-comma split, then the anchored prefix
// grammars against the whole line. On failure the timestamp stays nil and the
// whole line is the working message, never a guess.
func (c *LineClassifier) extractTimestamp(line string) (*time.Time, string) {
	if idx := strings.Index(line, ","); idx >= 0 {
		if ts, ok := c.rec.Recognize(line[:idx]); ok {
			return &ts, strings.TrimSpace(line[idx+1:])
		}
	}
	if ts, rest, ok := c.rec.RecognizePrefix(line); ok {
		return &ts, rest
	}
	return nil, line
}

// extractSourceTag returns the first bracketed token that is neither a
// severity word nor a date/time fragment.
func (c *LineClassifier) extractSourceTag(working string) string {
	for _, sub := range reBracketTok.FindAllStringSubmatch(working, -1) {
		tok := strings.TrimSpace(sub[1])
		if tok == "" {
			continue
		}
		if models.IsSeverityWord(tok) {
			continue
		}
		if c.looksLikeTimeFragment(tok) {
			continue
		}
		return tok
	}
	return ""
}

func (c *LineClassifier) looksLikeTimeFragment(tok string) bool {
	if _, ok := c.rec.Recognize(tok); ok {
		return true
	}
	return strings.ContainsAny(tok, "0123456789") && reTimeFrag.MatchString(tok)
}

// extractSeverity tries, in order: bracketed severity word, WORD: form, bare
// severity keyword, then content inference. It returns the level and the
// matched marker text to strip ("" when severity was inferred, not marked).
func (c *LineClassifier) extractSeverity(working string) (string, string) {
	if sub := reSeverityBrk.FindStringSubmatch(working); sub != nil {
		return models.NormalizeSeverity(sub[1]), sub[0]
	}
	if sub := reSeverityCol.FindStringSubmatch(working); sub != nil {
		return models.NormalizeSeverity(sub[1]), sub[0]
	}
	if sub := reSeverityAny.FindStringSubmatch(working); sub != nil {
		return models.NormalizeSeverity(sub[1]), sub[0]
	}

	lower := strings.ToLower(working)
	for _, family := range inferredSeverity {
		for _, kw := range family.keywords {
			if strings.Contains(lower, kw) {
				return family.level, ""
			}
		}
	}
	return models.SeverityInfo, ""
}
