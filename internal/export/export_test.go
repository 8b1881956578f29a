package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kavyamurthy/logscope/internal/parse"
	"github.com/kavyamurthy/logscope/internal/timestamp"
	"github.com/kavyamurthy/logscope/pkg/models"
)

func TestWrite(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	records := []models.Record{
		{Timestamp: &ts, Severity: models.SeverityError, Message: "connection timeout", SourceTag: "db"},
		{Severity: models.SeverityInfo, Message: "no timestamp"},
	}

	out, err := Bytes(records)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "timestamp,severity,message" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "2025-01-15 10:30:00,ERROR,[db] connection timeout" {
		t.Errorf("unexpected row: %q", lines[1])
	}
	if lines[2] != ",INFO,no timestamp" {
		t.Errorf("unexpected row: %q", lines[2])
	}
}

func TestWrite_QuotesCommas(t *testing.T) {
	records := []models.Record{
		{Severity: models.SeverityWarn, Message: `disk "sda", nearly full`},
	}

	out, err := Bytes(records)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Read(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Message != `disk "sda", nearly full` {
		t.Errorf("message mangled: %q", got[0].Message)
	}
}

func TestRoundTrip(t *testing.T) {
	input := strings.Join([]string{
		"2025-01-15 10:30:00,[ERROR] Connection timeout to database",
		"2025-01-15 10:31:00,[WARN] [auth] token close to expiry",
		"no timestamp here ERROR: disk full",
		"plain informational line",
	}, "\n")

	seq := parse.NewSequencer(timestamp.Default())
	records, err := seq.ParseLog(input)
	if err != nil {
		t.Fatal(err)
	}

	out, err := Bytes(records)
	if err != nil {
		t.Fatal(err)
	}

	back, err := Read(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}

	if len(back) != len(records) {
		t.Fatalf("record count changed: %d -> %d", len(records), len(back))
	}
	for i := range records {
		if back[i].Severity != records[i].Severity {
			t.Errorf("record %d severity %q -> %q", i, records[i].Severity, back[i].Severity)
		}
		if (back[i].Timestamp == nil) != (records[i].Timestamp == nil) {
			t.Errorf("record %d timestamp presence changed", i)
			continue
		}
		if records[i].Timestamp != nil && !back[i].Timestamp.Equal(*records[i].Timestamp) {
			t.Errorf("record %d timestamp %v -> %v", i, records[i].Timestamp, back[i].Timestamp)
		}
		// The message column folds the source tag back in; the bare message
		// must still be recoverable.
		want := records[i].Message
		if records[i].SourceTag != "" {
			want = "[" + records[i].SourceTag + "] " + records[i].Message
		}
		if back[i].Message != want {
			t.Errorf("record %d message %q -> %q", i, want, back[i].Message)
		}
	}
}
