package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kavyamurthy/logscope/internal/timestamp"
	"github.com/kavyamurthy/logscope/pkg/models"
)

// Binner policy defaults; override via BinnerOptions.
const (
	// DefaultSampleThreshold is the record count above which deterministic
	// stride sampling kicks in.
	DefaultSampleThreshold = 50000
	// DefaultMaxPoints is the bucket budget before the binner escalates to a
	// coarser width.
	DefaultMaxPoints = 500
	// escalationWidth is the coarser width the binner falls back to when the
	// requested width would blow the point budget.
	escalationWidth = time.Hour
	// cancelCheckEvery is how many buckets are built between context checks.
	cancelCheckEvery = 50
)

var (
	// ErrNoChartableData distinguishes "no record carried a valid timestamp"
	// from an empty bucket series over a valid range.
	ErrNoChartableData = errors.New("no records with valid timestamps to chart")
	// ErrStaleInput reports that a newer input superseded the one a
	// computation was started for; the result was discarded, not published.
	ErrStaleInput = errors.New("input superseded while computing timeline")
	// ErrCacheMismatch reports a cache hit whose stored entry belongs to a
	// different input, a fingerprint collision the key must prevent.
	ErrCacheMismatch = errors.New("cached timeline does not match request")
)

// Binner states per (fingerprint, width) pair.
const (
	StateIdle      = "idle"
	StateComputing = "computing"
	StateReady     = "ready"
)

// TimelineCache stores computed timelines keyed by input fingerprint and
// interval width. Implementations must be safe for concurrent use; writes are
// idempotent per key, so last-writer-wins needs no coordination.
type TimelineCache interface {
	GetTimeline(ctx context.Context, fingerprint string, width time.Duration) (*models.Timeline, bool, error)
	SetTimeline(ctx context.Context, tl *models.Timeline) error
}

// BinnerOptions overrides the binner's policy constants. Zero values keep the
// defaults.
type BinnerOptions struct {
	SampleThreshold int
	MaxPoints       int
}

// Binner groups valid-timestamp records into fixed-width interval buckets.
// Results are cached per (fingerprint, width); computations for two different
// widths are independent. A computation is tagged with the fingerprint it was
// started for, and its result is discarded if a newer input from the same
// session supersedes it before publishing. Inputs from different sessions
// never supersede each other.
type Binner struct {
	rec             timestamp.Recognizer
	cache           TimelineCache
	sampleThreshold int
	maxPoints       int

	mu     sync.Mutex
	states map[stateKey]string
	active map[string]string
}

type stateKey struct {
	fingerprint string
	width       time.Duration
}

type ctxKey int

const sessionKey ctxKey = 0

// WithSession tags ctx with the caller's identity for stale-input tracking.
// Each session has its own notion of the current input; untagged contexts
// share the empty session.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

// NewBinner creates a Binner. The cache is injected, never a package-level
// singleton, so tests can supply a fresh one and assert hit/miss behavior.
func NewBinner(rec timestamp.Recognizer, cache TimelineCache, opts BinnerOptions) *Binner {
	if opts.SampleThreshold <= 0 {
		opts.SampleThreshold = DefaultSampleThreshold
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = DefaultMaxPoints
	}
	return &Binner{
		rec:             rec,
		cache:           cache,
		sampleThreshold: opts.SampleThreshold,
		maxPoints:       opts.MaxPoints,
		states:          make(map[stateKey]string),
		active:          make(map[string]string),
	}
}

// Status reports the binner state for one (fingerprint, width) pair. A width
// already cached goes idle → ready without a computing phase.
func (b *Binner) Status(fingerprint string, width time.Duration) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.states[stateKey{fingerprint, width}]; ok {
		return s
	}
	return StateIdle
}

// Timeline returns the bucket series for records at the given width,
// consulting the cache first. width <= 0 picks a width from the valid span.
// The call marks this input as the session's active one: an in-flight
// computation for a previous input of the same session will discard its
// result instead of publishing it.
func (b *Binner) Timeline(ctx context.Context, records []models.Record, width time.Duration) (*models.Timeline, error) {
	fp := Fingerprint(records)
	session := sessionFrom(ctx)

	b.mu.Lock()
	b.active[session] = fp
	b.mu.Unlock()

	valid, min, max := validTimestamps(records, b.rec)
	if len(valid) == 0 {
		return nil, ErrNoChartableData
	}

	sampled := false
	if len(valid) > b.sampleThreshold {
		valid = strideSample(valid, b.sampleThreshold)
		sampled = true
	}

	// Resolve the effective width before the cache lookup so equivalent
	// requests share an entry.
	if width <= 0 {
		width = ChooseWidth(max.Sub(min), b.maxPoints)
	}
	if bucketCount(max.Sub(min), width) > b.maxPoints && width < escalationWidth {
		width = escalationWidth
	}

	if cached, ok, err := b.cache.GetTimeline(ctx, fp, width); err == nil && ok {
		if cached.Fingerprint != fp {
			return nil, ErrCacheMismatch
		}
		b.setState(fp, width, StateReady)
		return cached, nil
	}

	b.setState(fp, width, StateComputing)
	tl, err := b.compute(ctx, valid, min, max, fp, width, sampled)
	if err != nil {
		b.setState(fp, width, StateIdle)
		return nil, err
	}

	// Stale-result suppression: publish only if this input is still the
	// session's current one.
	b.mu.Lock()
	stale := b.active[session] != fp
	b.mu.Unlock()
	if stale {
		b.setState(fp, width, StateIdle)
		return nil, ErrStaleInput
	}

	if err := b.cache.SetTimeline(ctx, tl); err != nil {
		return nil, err
	}
	b.setState(fp, width, StateReady)
	return tl, nil
}

func (b *Binner) setState(fp string, width time.Duration, state string) {
	b.mu.Lock()
	b.states[stateKey{fp, width}] = state
	b.mu.Unlock()
}

// compute builds the series, then strides the bucket list itself if it still
// exceeds the point budget. Strided bucket totals are undercounts, not
// estimates, and the timeline is marked sampled.
func (b *Binner) compute(ctx context.Context, valid []models.Record, min, max time.Time, fp string, width time.Duration, sampled bool) (*models.Timeline, error) {
	buckets, err := b.fill(ctx, valid, min, max, width)
	if err != nil {
		return nil, err
	}

	tl := &models.Timeline{
		Fingerprint: fp,
		Width:       width,
		BucketWidth: width,
		Buckets:     buckets,
		Sampled:     sampled,
	}
	if sampled {
		tl.SampledCount = len(valid)
	}

	// Width stays the requested width: it is the cache key, and rewriting it
	// would file this result under a coarser width's entry.
	if len(tl.Buckets) > b.maxPoints {
		stride := (len(tl.Buckets) + b.maxPoints - 1) / b.maxPoints
		var kept []models.Bucket
		for i := 0; i < len(tl.Buckets); i += stride {
			kept = append(kept, tl.Buckets[i])
		}
		tl.Buckets = kept
		tl.BucketWidth = width * time.Duration(stride)
		tl.Sampled = true
	}

	return tl, nil
}

// fill rounds min down to a width multiple and walks forward past max,
// emitting zero-filled buckets so the series is contiguous and uniformly
// spaced, then tallies per-severity counts into [start, start+width) slots.
// It checks ctx between chunks so oversized walks can be cancelled.
func (b *Binner) fill(ctx context.Context, valid []models.Record, min, max time.Time, width time.Duration) ([]models.Bucket, error) {
	start := min.Truncate(width)

	var buckets []models.Bucket
	index := make(map[int64]int)
	for t := start; !t.After(max); t = t.Add(width) {
		if len(buckets)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		counts := make(map[string]int, len(models.Severities))
		for _, level := range models.Severities {
			counts[level] = 0
		}
		index[t.UnixNano()] = len(buckets)
		buckets = append(buckets, models.Bucket{IntervalStart: t, SeverityCounts: counts})
	}

	for _, r := range valid {
		slot := r.Timestamp.Truncate(width)
		i, ok := index[slot.UnixNano()]
		if !ok {
			continue
		}
		buckets[i].Total++
		buckets[i].SeverityCounts[r.Severity]++
	}

	return buckets, nil
}

// strideSample keeps every k-th record where k = ceil(n/threshold),
// preserving relative order. Deterministic: the same input always yields the
// same sample.
func strideSample(records []models.Record, threshold int) []models.Record {
	n := len(records)
	k := (n + threshold - 1) / threshold
	out := make([]models.Record, 0, threshold)
	for i := 0; i < n; i += k {
		out = append(out, records[i])
	}
	return out
}

// widthLadder lists the widths ChooseWidth considers, finest first.
var widthLadder = []time.Duration{
	time.Minute, 5 * time.Minute, 15 * time.Minute, 30 * time.Minute,
	time.Hour, 3 * time.Hour, 6 * time.Hour, 12 * time.Hour, 24 * time.Hour,
}

// ChooseWidth picks the finest ladder width that keeps the bucket count for
// span inside the point budget.
func ChooseWidth(span time.Duration, maxPoints int) time.Duration {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	for _, w := range widthLadder {
		if bucketCount(span, w) <= maxPoints {
			return w
		}
	}
	return widthLadder[len(widthLadder)-1]
}

func bucketCount(span, width time.Duration) int {
	return int(span/width) + 1
}
