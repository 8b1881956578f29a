// Package mock provides a Narrator for tests and for running without a
// configured AI backend.
package mock

import (
	"context"
	"fmt"

	"github.com/kavyamurthy/logscope/internal/ai"
	"github.com/kavyamurthy/logscope/pkg/models"
)

// MockNarrator satisfies models.Narrator for testing.
type MockNarrator struct {
	Name_       string
	NarrateFunc func(ctx context.Context, stats models.ReportStats) (string, error)
}

func (m *MockNarrator) Name() string  { return m.Name_ }
func (m *MockNarrator) Model() string { return "mock-v1" }

func (m *MockNarrator) Narrate(ctx context.Context, stats models.ReportStats) (string, error) {
	if m.NarrateFunc != nil {
		return m.NarrateFunc(ctx, stats)
	}
	return "", nil
}

// NewMockNarrator returns a MockNarrator with a sensible default response.
func NewMockNarrator() *MockNarrator {
	return &MockNarrator{
		Name_: "mock",
		NarrateFunc: func(_ context.Context, stats models.ReportStats) (string, error) {
			return fmt.Sprintf("Analyzed %d records (%d errors, %d warnings).",
				stats.TotalCount,
				stats.SeverityCounts[models.SeverityError],
				stats.SeverityCounts[models.SeverityWarn]), nil
		},
	}
}

// NewFailingNarrator returns a MockNarrator that always returns the given error.
func NewFailingNarrator(err error) *MockNarrator {
	return &MockNarrator{
		Name_: "mock-failing",
		NarrateFunc: func(_ context.Context, _ models.ReportStats) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutNarrator returns a MockNarrator that blocks until context is cancelled.
func NewTimeoutNarrator() *MockNarrator {
	return &MockNarrator{
		Name_: "mock-timeout",
		NarrateFunc: func(ctx context.Context, _ models.ReportStats) (string, error) {
			<-ctx.Done()
			return "", ai.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockNarrator implements Narrator.
var _ models.Narrator = (*MockNarrator)(nil)
