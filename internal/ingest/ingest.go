// Package ingest validates uploaded content before parsing and flattens
// structured inputs into the line grammar the parser understands.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultMaxBytes is the upload size ceiling.
const DefaultMaxBytes = 50 << 20

// Named errors so callers can map rejections to stable API error codes.
var (
	ErrTooLarge        = errors.New("upload exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyUpload     = errors.New("upload is empty")
	ErrMalformedUpload = errors.New("upload could not be decoded")
	ErrUnknownContent  = errors.New("content kind could not be determined")
)

// allowedExtensions is the upload allow-list. Extensions are matched
// case-insensitively.
var allowedExtensions = map[string]bool{
	".log":  true,
	".txt":  true,
	".out":  true,
	".json": true,
	".csv":  true,
}

// Kind tells the caller which parser to hand the content to.
type Kind string

const (
	KindLog   Kind = "log"
	KindAudit Kind = "audit"
)

// Guard validates uploads against size and type limits.
type Guard struct {
	maxBytes int64
}

// NewGuard creates a Guard. maxBytes <= 0 keeps the default ceiling.
func NewGuard(maxBytes int64) Guard {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Guard{maxBytes: maxBytes}
}

// MaxBytes reports the configured size ceiling.
func (g Guard) MaxBytes() int64 { return g.maxBytes }

// Check rejects an upload whose name or size violates the limits. The name is
// only consulted for its extension; path components are ignored.
func (g Guard) Check(name string, size int64) error {
	if size > g.maxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, size, g.maxBytes)
	}
	if size == 0 {
		return ErrEmptyUpload
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return nil
}

// Classify decides which parser the content belongs to. JSON files are
// flattened first, so by the time content reaches the parsers it is always
// line-oriented. CSV extension means audit rows; everything else is log lines.
func Classify(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return KindAudit, nil
	case ".log", ".txt", ".out", ".json":
		return KindLog, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownContent, name)
	}
}
