package parse

import (
	"testing"
	"time"

	"github.com/kavyamurthy/logscope/internal/timestamp"
	"github.com/kavyamurthy/logscope/pkg/models"
)

func newLine() *LineClassifier {
	return NewLineClassifier(timestamp.Default())
}

func TestClassify_CommaTimestampAndBracketedSeverity(t *testing.T) {
	rec, ok := newLine().Classify("2025-01-15 10:30:00,[ERROR] Connection timeout to database", 0)
	if !ok {
		t.Fatal("expected a record")
	}

	want := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	if rec.Timestamp == nil || !rec.Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, rec.Timestamp)
	}
	if rec.Severity != models.SeverityError {
		t.Errorf("expected ERROR, got %s", rec.Severity)
	}
	if rec.Message != "Connection timeout to database" {
		t.Errorf("unexpected message: %q", rec.Message)
	}
	// ERROR is a recognized severity word, never mistaken for a source tag.
	if rec.SourceTag != "" {
		t.Errorf("expected no source tag, got %q", rec.SourceTag)
	}
}

func TestClassify_NoTimestampColonSeverity(t *testing.T) {
	rec, ok := newLine().Classify("no timestamp here ERROR: disk full", 0)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.Timestamp != nil {
		t.Errorf("expected no timestamp, got %v", rec.Timestamp)
	}
	if rec.Severity != models.SeverityError {
		t.Errorf("expected ERROR, got %s", rec.Severity)
	}
	if rec.Message != "no timestamp here disk full" {
		t.Errorf("expected ERROR: marker stripped, got %q", rec.Message)
	}
}

func TestClassify_Severity(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{"bracketed warn", "[WARN] running low on disk", models.SeverityWarn},
		{"warning alias", "[WARNING] running low on disk", models.SeverityWarn},
		{"err alias", "ERR: socket closed", models.SeverityError},
		{"fatal alias", "FATAL: out of memory", models.SeverityError},
		{"critical alias", "CRITICAL: database gone", models.SeverityError},
		{"lowercase keyword", "debug: entering handler", models.SeverityDebug},
		{"bare keyword anywhere", "caught WARN in dispatcher", models.SeverityWarn},
		{"inferred error from exception", "unhandled exception in worker", models.SeverityError},
		{"inferred warn from timeout", "request took too long: timeout", models.SeverityWarn},
		{"inferred debug from verbose", "verbose output enabled", models.SeverityDebug},
		{"default info", "user logged in", models.SeverityInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := newLine().Classify(tt.line, 0)
			if !ok {
				t.Fatal("expected a record")
			}
			if rec.Severity != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, rec.Severity)
			}
		})
	}
}

func TestClassify_SourceTag(t *testing.T) {
	rec, ok := newLine().Classify("2025-01-15 10:30:00,[auth-service] [ERROR] login rejected", 0)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.SourceTag != "auth-service" {
		t.Errorf("expected source tag auth-service, got %q", rec.SourceTag)
	}
	if rec.Severity != models.SeverityError {
		t.Errorf("expected ERROR, got %s", rec.Severity)
	}
	if rec.Message != "login rejected" {
		t.Errorf("unexpected message: %q", rec.Message)
	}
}

func TestClassify_FirstNonDateNonSeverityBracketWins(t *testing.T) {
	rec, ok := newLine().Classify("[2025-01-15 10:30:00] [INFO] [scheduler] [worker-2] tick", 0)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.Timestamp == nil {
		t.Error("expected bracketed timestamp to be recognized")
	}
	if rec.SourceTag != "scheduler" {
		t.Errorf("expected first eligible token 'scheduler', got %q", rec.SourceTag)
	}
}

func TestClassify_TimeFragmentNotASource(t *testing.T) {
	rec, ok := newLine().Classify("[10:30:00] INFO heartbeat", 0)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.SourceTag != "" {
		t.Errorf("time fragment must not become a source tag, got %q", rec.SourceTag)
	}
}

func TestClassify_BlankLine(t *testing.T) {
	if _, ok := newLine().Classify("   ", 0); ok {
		t.Error("blank line must not produce a record")
	}
	if _, ok := newLine().Classify("", 0); ok {
		t.Error("empty line must not produce a record")
	}
}

func TestClassify_NoGuessedTimestamp(t *testing.T) {
	rec, ok := newLine().Classify("order 20250115 shipped", 0)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.Timestamp != nil {
		t.Errorf("numeric token must not become a timestamp, got %v", rec.Timestamp)
	}
	if rec.Message != "order 20250115 shipped" {
		t.Errorf("unexpected message: %q", rec.Message)
	}
}

func TestClassify_StrippingNeverEmptiesMessage(t *testing.T) {
	rec, ok := newLine().Classify("[ERROR]", 0)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.Message == "" {
		t.Error("message must fall back to the working message when stripping empties it")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	line := "2025-01-15 10:30:00,[db] ERROR: connection refused"
	a, _ := newLine().Classify(line, 7)
	b, _ := newLine().Classify(line, 7)
	if a.Severity != b.Severity || a.Message != b.Message || a.SourceTag != b.SourceTag ||
		a.Raw != b.Raw || a.ID != b.ID {
		t.Errorf("classify must be a pure function of its input:\n%+v\n%+v", a, b)
	}
	if (a.Timestamp == nil) != (b.Timestamp == nil) {
		t.Error("timestamp presence differs between runs")
	}
}

func TestClassify_RawPreserved(t *testing.T) {
	line := "  2025-01-15 10:30:00,[INFO] spaced out  "
	rec, _ := newLine().Classify(line, 0)
	if rec.Raw != line {
		t.Errorf("raw must be the untouched line, got %q", rec.Raw)
	}
}
