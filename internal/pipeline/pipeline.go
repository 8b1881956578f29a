// Package pipeline orchestrates one analysis pass: validate the upload,
// flatten structured content, parse it into records, aggregate, and record
// the upload metadata. Handlers call this instead of wiring the stages
// themselves.
package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kavyamurthy/logscope/internal/analysis"
	"github.com/kavyamurthy/logscope/internal/ingest"
	"github.com/kavyamurthy/logscope/internal/parse"
	"github.com/kavyamurthy/logscope/internal/store"
	"github.com/kavyamurthy/logscope/internal/timestamp"
	"github.com/kavyamurthy/logscope/pkg/models"
)

// Result is everything one analysis pass produces. Log inputs populate
// Records and Summary; audit inputs populate AuditRecords, Categories, and
// KeyEvents.
type Result struct {
	Upload       *models.Upload       `json:"upload"`
	Records      []models.Record      `json:"records,omitempty"`
	Summary      *models.Summary      `json:"summary,omitempty"`
	AuditRecords []models.AuditRecord `json:"audit_records,omitempty"`
	Categories   map[string]int       `json:"categories,omitempty"`
	KeyEvents    []models.AuditRecord `json:"key_events,omitempty"`
	Fingerprint  string               `json:"fingerprint"`
}

// Pipeline runs analysis passes with a fixed policy configuration.
type Pipeline struct {
	guard         ingest.Guard
	rec           timestamp.Recognizer
	seq           *parse.Sequencer
	limits        analysis.Limits
	keyEventLimit int
	store         store.Store
}

// Options configures a Pipeline. Zero values keep package defaults.
type Options struct {
	MaxUploadBytes int64
	Recognizer     timestamp.Recognizer
	Limits         analysis.Limits
	KeyEventLimit  int
}

// New creates a Pipeline. The store may be nil, in which case upload
// metadata is not persisted (used in tests).
func New(st store.Store, opts Options) *Pipeline {
	rec := opts.Recognizer
	if rec == (timestamp.Recognizer{}) {
		rec = timestamp.Default()
	}
	keyLimit := opts.KeyEventLimit
	if keyLimit <= 0 {
		keyLimit = parse.DefaultKeyEventLimit
	}
	return &Pipeline{
		guard:         ingest.NewGuard(opts.MaxUploadBytes),
		rec:           rec,
		seq:           parse.NewSequencer(rec),
		limits:        opts.Limits,
		keyEventLimit: keyLimit,
		store:         st,
	}
}

// Recognizer exposes the timestamp policy so callers can share it with the
// timeline binner.
func (p *Pipeline) Recognizer() timestamp.Recognizer { return p.rec }

// Guard exposes the upload limits for surfaces that check before reading.
func (p *Pipeline) Guard() ingest.Guard { return p.guard }

// ParseLog validates and parses log content without aggregation or
// persistence. Used by surfaces that only need the record sequence.
func (p *Pipeline) ParseLog(name, content string) ([]models.Record, error) {
	if err := p.guard.Check(name, int64(len(content))); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(name), ".json") {
		content = ingest.FlattenJSON(content)
	}
	return p.seq.ParseLog(content)
}

// Analyze runs the full pass for one named input and persists the upload
// metadata row.
func (p *Pipeline) Analyze(ctx context.Context, name, content string) (*Result, error) {
	if err := p.guard.Check(name, int64(len(content))); err != nil {
		return nil, err
	}
	kind, err := ingest.Classify(name)
	if err != nil {
		return nil, err
	}

	lineCount := countNonBlank(content)

	res := &Result{}
	switch kind {
	case ingest.KindAudit:
		records, err := p.seq.ParseAudit(content)
		if err != nil {
			return nil, err
		}
		res.AuditRecords = records
		res.Categories = categorize(records)
		res.KeyEvents = parse.KeyEvents(records, p.keyEventLimit)
		res.Fingerprint = auditFingerprint(records)
	default:
		if strings.EqualFold(filepath.Ext(name), ".json") {
			content = ingest.FlattenJSON(content)
		}
		records, err := p.seq.ParseLog(content)
		if err != nil {
			return nil, err
		}
		summary := analysis.Summarize(records, p.rec, p.limits)
		res.Records = records
		res.Summary = &summary
		res.Fingerprint = analysis.Fingerprint(records)
	}

	res.Upload = &models.Upload{
		ID:          uuid.New(),
		Name:        filepath.Base(name),
		Kind:        string(kind),
		SizeBytes:   int64(len(content)),
		LineCount:   lineCount,
		RecordCount: len(res.Records) + len(res.AuditRecords),
		ErrorCount:  errorCount(res),
		Fingerprint: res.Fingerprint,
		CreatedAt:   time.Now().UTC(),
	}

	if p.store != nil {
		if err := p.store.CreateUpload(ctx, res.Upload); err != nil {
			// Metadata persistence is best-effort; the analysis itself stands.
			slog.Warn("recording upload metadata failed", "name", res.Upload.Name, "error", err)
		}
	}

	return res, nil
}

// errorCount is the ERROR tally for logs; for audit inputs the flagged key
// events stand in as the closest notion of "needs attention".
func errorCount(res *Result) int {
	if res.Summary != nil {
		return res.Summary.ErrorCount()
	}
	return len(res.KeyEvents)
}

func categorize(records []models.AuditRecord) map[string]int {
	counts := map[string]int{
		models.CategoryDeletion:    0,
		models.CategoryMovement:    0,
		models.CategoryCheckInOut:  0,
		models.CategoryReplacement: 0,
		models.CategoryOther:       0,
	}
	for _, r := range records {
		counts[parse.Categorize(r)]++
	}
	return counts
}

// auditFingerprint mirrors analysis.Fingerprint for the audit record type.
func auditFingerprint(records []models.AuditRecord) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d", len(records))
	if len(records) > 0 {
		h.Write([]byte{0})
		h.Write([]byte(records[0].Raw))
		h.Write([]byte{0})
		h.Write([]byte(records[len(records)-1].Raw))
		if records[0].Timestamp != nil {
			h.Write([]byte{0})
			h.Write([]byte(records[0].Timestamp.UTC().Format("2006-01-02T15:04:05.999999999")))
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func countNonBlank(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
