package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/kavyamurthy/logscope/pkg/models"
)

// BuildPrompt renders the numeric summary statistics as a prompt asking for
// report narrative. Only aggregate numbers and normalized patterns are
// included; raw record text never appears here.
func BuildPrompt(stats models.ReportStats) string {
	var b strings.Builder
	b.WriteString("You are writing the narrative section of a log analysis report.\n")
	b.WriteString("Summarize the following aggregate statistics in two or three short paragraphs.\n")
	b.WriteString("Do not invent log content; describe only what the numbers show.\n\n")

	fmt.Fprintf(&b, "Total records: %d\n", stats.TotalCount)
	for _, level := range models.Severities {
		if n := stats.SeverityCounts[level]; n > 0 {
			fmt.Fprintf(&b, "%s: %d\n", level, n)
		}
	}

	if stats.Span.Valid {
		fmt.Fprintf(&b, "Time range: %s to %s\n",
			stats.Span.Start.Format(time.RFC3339), stats.Span.End.Format(time.RFC3339))
	} else {
		b.WriteString("Time range: not determinable from input\n")
	}

	if len(stats.TopPatterns) > 0 {
		b.WriteString("\nMost frequent error patterns:\n")
		for _, p := range stats.TopPatterns {
			fmt.Fprintf(&b, "- %dx %s\n", p.Count, p.Pattern)
		}
	}

	return b.String()
}
