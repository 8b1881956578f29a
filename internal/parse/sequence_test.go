package parse

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kavyamurthy/logscope/internal/timestamp"
)

func newSeq() *Sequencer {
	return NewSequencer(timestamp.Default())
}

func TestParseLog_CountMatchesNonBlankLines(t *testing.T) {
	content := "2025-01-15 10:30:00,[INFO] one\n\n[ERROR] two\n   \nthree\n"
	records, err := newSeq().ParseLog(content)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records for 3 non-blank lines, got %d", len(records))
	}
}

func TestParseLog_SortNewestFirstMissingLast(t *testing.T) {
	content := strings.Join([]string{
		"2025-01-15 10:00:00,[INFO] early",
		"untimed alpha",
		"2025-01-15 12:00:00,[INFO] late",
		"untimed beta",
		"2025-01-15 11:00:00,[INFO] middle",
	}, "\n")

	records, err := newSeq().ParseLog(content)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}

	seenNil := false
	for i := 0; i < len(records)-1; i++ {
		a, b := records[i].Timestamp, records[i+1].Timestamp
		if a == nil {
			seenNil = true
		}
		if seenNil && b != nil {
			t.Fatal("timestamped record found after an untimestamped one")
		}
		if a != nil && b != nil && a.Before(*b) {
			t.Fatalf("records out of order at %d: %v before %v", i, a, b)
		}
	}

	if records[0].Message != "late" {
		t.Errorf("expected newest record first, got %q", records[0].Message)
	}
	// Untimestamped records keep their relative input order (stable sort).
	if records[3].Message != "untimed alpha" || records[4].Message != "untimed beta" {
		t.Errorf("untimestamped records reordered: %q, %q", records[3].Message, records[4].Message)
	}
}

func TestParseLog_EmptyInput(t *testing.T) {
	_, err := newSeq().ParseLog("")
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	_, err = newSeq().ParseLog("  \n \n")
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput for whitespace-only input, got %v", err)
	}
}

func TestParseLog_CRLF(t *testing.T) {
	records, err := newSeq().ParseLog("[INFO] one\r\n[INFO] two\r\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if strings.HasSuffix(records[0].Raw, "\r") {
		t.Error("carriage return leaked into raw line")
	}
}

func TestParseAudit_HeaderConsumed(t *testing.T) {
	content := strings.Join([]string{
		"Date,User,Action,File,Folder,Details",
		"2025-03-02 09:15:00,alice,Deleted,a.txt,/x,cleanup",
		"",
		"2025-03-02 10:15:00,bob,Viewed,b.txt,/y,",
	}, "\n")

	records, err := newSeq().ParseAudit(content)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (header consumed, blank skipped), got %d", len(records))
	}
	// Newest first.
	if records[0].Actor != "bob" || records[1].Actor != "alice" {
		t.Errorf("expected newest-first order, got %q then %q", records[0].Actor, records[1].Actor)
	}
}

func TestParseAudit_EmptyInput(t *testing.T) {
	_, err := newSeq().ParseAudit("\n\n")
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestParseLog_LargeInputNoRecordsDropped(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10000; i++ {
		fmt.Fprintf(&b, "2025-01-15 10:%02d:%02d,[INFO] tick %d\n", (i/60)%60, i%60, i)
	}
	records, err := newSeq().ParseLog(b.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 10000 {
		t.Errorf("expected 10000 records, got %d", len(records))
	}
}
