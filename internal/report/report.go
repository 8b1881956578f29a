// Package report assembles the final analysis document: a statistics body
// derived from the summary, plus free-text sections from a Narrator, bounded
// by a fixed character budget.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/kavyamurthy/logscope/pkg/models"
)

// MaxChars is the character budget for an assembled document. Narrative
// sections are appended verbatim and whatever exceeds the budget is cut.
const MaxChars = 8000

// Build renders the statistics body and appends the narrative sections,
// truncating the result to MaxChars runes.
func Build(summary models.Summary, sections string) string {
	var b strings.Builder

	b.WriteString("LOG ANALYSIS REPORT\n")
	b.WriteString("===================\n\n")

	fmt.Fprintf(&b, "Total records: %d\n", summary.TotalCount)
	for _, level := range models.Severities {
		fmt.Fprintf(&b, "%-6s %d\n", level, summary.SeverityCounts[level])
	}

	if summary.Span.Valid {
		fmt.Fprintf(&b, "\nTime range: %s to %s\n",
			summary.Span.Start.Format(time.RFC3339), summary.Span.End.Format(time.RFC3339))
	} else {
		b.WriteString("\nTime range: no valid timestamps in input\n")
	}

	if len(summary.TopPatterns) > 0 {
		b.WriteString("\nTop error patterns:\n")
		for _, p := range summary.TopPatterns {
			fmt.Fprintf(&b, "  %4dx  %s\n", p.Count, p.Pattern)
		}
	}

	if len(summary.CriticalRecords) > 0 {
		b.WriteString("\nCritical records:\n")
		for _, r := range summary.CriticalRecords {
			ts := "-"
			if r.Timestamp != nil {
				ts = r.Timestamp.Format(time.RFC3339)
			}
			fmt.Fprintf(&b, "  [%s] %s %s\n", r.Severity, ts, r.Message)
		}
	}

	if s := strings.TrimSpace(sections); s != "" {
		b.WriteString("\nNarrative:\n")
		b.WriteString(s)
		b.WriteString("\n")
	}

	return truncateRunes(b.String(), MaxChars)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
