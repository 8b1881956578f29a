package parse

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/kavyamurthy/logscope/internal/timestamp"
	"github.com/kavyamurthy/logscope/pkg/models"
)

// ErrEmptyInput is returned when an input contains no content at all, as
// opposed to content that yields zero records.
var ErrEmptyInput = errors.New("input is empty")

// Sequencer drives the classifiers over a full input, producing an ordered
// record sequence: newest first, records without a timestamp after all
// timestamped records. Every non-blank line yields exactly one record.
type Sequencer struct {
	line *LineClassifier
	row  *RowClassifier
}

// NewSequencer returns a Sequencer using the given timestamp policy.
func NewSequencer(rec timestamp.Recognizer) *Sequencer {
	return &Sequencer{
		line: NewLineClassifier(rec),
		row:  NewRowClassifier(rec),
	}
}

// ParseLog classifies every non-blank line of a log file.
func (s *Sequencer) ParseLog(content string) ([]models.Record, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyInput
	}

	var records []models.Record
	for _, line := range strings.Split(content, "\n") {
		rec, ok := s.line.Classify(strings.TrimRight(line, "\r"), len(records))
		if !ok {
			continue
		}
		records = append(records, *rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return timestampLess(records[i].Timestamp, records[j].Timestamp)
	})
	return records, nil
}

// ParseAudit classifies every non-blank row of a CSV-like audit export. The
// first non-blank row is consumed as the header and mapped to fields; the
// remaining rows become records.
func (s *Sequencer) ParseAudit(content string) ([]models.AuditRecord, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyInput
	}

	var hm HeaderMap
	haveHeader := false

	var records []models.AuditRecord
	for _, row := range strings.Split(content, "\n") {
		row = strings.TrimRight(row, "\r")
		if strings.TrimSpace(row) == "" {
			continue
		}
		if !haveHeader {
			hm = NewHeaderMap(SplitRow(row))
			haveHeader = true
			continue
		}
		rec, ok := s.row.Classify(row, hm, len(records))
		if !ok {
			continue
		}
		records = append(records, *rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return timestampLess(records[i].Timestamp, records[j].Timestamp)
	})
	return records, nil
}

// timestampLess orders newest first; missing timestamps sort last.
func timestampLess(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}
