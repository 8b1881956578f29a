// Package ai turns aggregate analysis statistics into report narrative via a
// configurable generative backend. Providers only ever see numeric summary
// data, never raw record text.
package ai

import (
	"context"
	"fmt"

	"github.com/kavyamurthy/logscope/internal/config"
	"github.com/kavyamurthy/logscope/pkg/models"
)

// NewNarrator constructs the appropriate Narrator based on config.
// Called once at server startup.
func NewNarrator(cfg config.AIConfig) (models.Narrator, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaProvider(cfg.Ollama), nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI), nil
	case "mock":
		return staticNarrator{}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of ollama, openai, mock", cfg.Provider)
	}
}

// staticNarrator produces a fixed one-line narrative so the report pipeline
// works without a generative backend configured.
type staticNarrator struct{}

func (staticNarrator) Name() string  { return "mock" }
func (staticNarrator) Model() string { return "static" }

func (staticNarrator) Narrate(_ context.Context, stats models.ReportStats) (string, error) {
	return fmt.Sprintf("Automated narrative unavailable; processed %d records with %d errors and %d warnings.",
		stats.TotalCount,
		stats.SeverityCounts[models.SeverityError],
		stats.SeverityCounts[models.SeverityWarn]), nil
}
