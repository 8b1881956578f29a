// Package export re-serializes a record sequence as CSV for download.
package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"time"

	"github.com/kavyamurthy/logscope/pkg/models"
)

// timestampLayout matches the plain grammar the classifier accepts, so
// exported files re-parse cleanly.
const timestampLayout = "2006-01-02 15:04:05"

// Header is the column row every export starts with.
var Header = []string{"timestamp", "severity", "message"}

// Write serializes records as CSV. The source tag is folded into the message
// column as a bracketed prefix; a missing timestamp becomes an empty cell.
// encoding/csv handles quoting, so commas and quotes in messages survive a
// round trip.
func Write(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Bytes is Write into a buffer.
func Bytes(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func row(r models.Record) []string {
	var ts string
	if r.Timestamp != nil {
		ts = r.Timestamp.Format(timestampLayout)
	}
	msg := r.Message
	if r.SourceTag != "" {
		msg = "[" + r.SourceTag + "] " + msg
	}
	return []string{ts, r.Severity, msg}
}

// Read parses CSV produced by Write back into records. Used to verify the
// round-trip property; the API itself only exports.
func Read(rd io.Reader) ([]models.Record, error) {
	cr := csv.NewReader(rd)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	var records []models.Record
	for i, cells := range rows {
		if i == 0 && len(cells) == len(Header) && cells[0] == Header[0] {
			continue
		}
		rec := models.Record{ID: len(records)}
		if len(cells) > 0 && cells[0] != "" {
			if ts, err := time.Parse(timestampLayout, cells[0]); err == nil {
				rec.Timestamp = &ts
			}
		}
		if len(cells) > 1 {
			rec.Severity = cells[1]
		}
		if len(cells) > 2 {
			rec.Message = cells[2]
		}
		records = append(records, rec)
	}
	return records, nil
}
