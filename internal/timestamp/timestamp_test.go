package timestamp

import (
	"testing"
	"time"
)

func TestRecognize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string // RFC3339, empty means unrecognized
	}{
		{
			name:     "plain date time",
			input:    "2025-01-15 10:30:00",
			expected: "2025-01-15T10:30:00Z",
		},
		{
			name:     "plain with fractional seconds",
			input:    "2025-01-15 10:30:00.123",
			expected: "2025-01-15T10:30:00.123Z",
		},
		{
			name:     "iso8601 with Z",
			input:    "2025-01-15T10:30:00Z",
			expected: "2025-01-15T10:30:00Z",
		},
		{
			name:     "iso8601 without zone",
			input:    "2025-01-15T10:30:00",
			expected: "2025-01-15T10:30:00Z",
		},
		{
			name:     "iso8601 with offset",
			input:    "2025-01-15T10:30:00+05:30",
			expected: "2025-01-15T10:30:00+05:30",
		},
		{
			name:     "bracket wrapped",
			input:    "[2025-01-15 10:30:00]",
			expected: "2025-01-15T10:30:00Z",
		},
		{
			name:     "leading whitespace tolerated",
			input:    "  2025-01-15 10:30:00",
			expected: "2025-01-15T10:30:00Z",
		},
		{
			name:     "trailing text ignored",
			input:    "2025-01-15 10:30:00 something happened",
			expected: "2025-01-15T10:30:00Z",
		},
		{
			name:  "year below bound rejected",
			input: "1999-01-15 10:30:00",
		},
		{
			name:  "year above bound rejected",
			input: "2099-01-15 10:30:00",
		},
		{
			name:  "bare number is not a date",
			input: "12345",
		},
		{
			name:  "prose is not a date",
			input: "no timestamp here",
		},
		{
			name:  "date without time is not accepted",
			input: "2025-01-15",
		},
		{
			name:  "empty string",
			input: "",
		},
	}

	r := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Recognize(tt.input)
			if tt.expected == "" {
				if ok {
					t.Errorf("expected no match, got %v", got)
				}
				return
			}
			if !ok {
				t.Fatalf("expected a match for %q", tt.input)
			}
			want, err := time.Parse(time.RFC3339Nano, tt.expected)
			if err != nil {
				t.Fatalf("bad expected value: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestRecognize_CustomBounds(t *testing.T) {
	r := NewRecognizer(1990, 2000)
	if _, ok := r.Recognize("1999-06-01 12:00:00"); !ok {
		t.Error("1999 should be accepted with widened bounds")
	}
	if _, ok := r.Recognize("2025-06-01 12:00:00"); ok {
		t.Error("2025 should be rejected with narrowed bounds")
	}
}

func TestValid(t *testing.T) {
	r := Default()

	if r.Valid(nil) {
		t.Error("nil timestamp must not be valid")
	}

	zero := time.Time{}
	if r.Valid(&zero) {
		t.Error("zero timestamp must not be valid")
	}

	old := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if r.Valid(&old) {
		t.Error("out-of-bound year must not be valid")
	}

	good := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	if !r.Valid(&good) {
		t.Error("in-bound timestamp must be valid")
	}
}
