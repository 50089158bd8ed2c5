// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintEvaluation outputs a human-readable summary of a scored candidate.
func (p *Printer) PrintEvaluation(handle string, eval *types.Evaluation) {
	if eval == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Label:    %s\n", eval.Label))
	sb.WriteString(fmt.Sprintf("Overall:  %.2f\n", eval.ScoreOverall))
	sb.WriteString(fmt.Sprintf("Location: %.2f\n", eval.ScoreLocation))
	sb.WriteString(fmt.Sprintf("Tech:     %.2f\n", eval.ScoreTech))

	if len(eval.Evidence) > 0 {
		sb.WriteString("\nEvidence:\n")
		count := min(len(eval.Evidence), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", eval.Evidence[i]))
		}
	}

	if len(eval.Uncertainties) > 0 {
		sb.WriteString("\nUncertainties:\n")
		for _, u := range eval.Uncertainties {
			sb.WriteString(fmt.Sprintf("  • %s\n", u))
		}
	}

	p.printBox(fmt.Sprintf("Evaluation: @%s", handle), strings.TrimRight(sb.String(), "\n"))
}

// PrintStageSummary outputs a compact stage completion banner.
func (p *Printer) PrintStageSummary(stage string, processed, skipped int) {
	content := fmt.Sprintf("Processed: %d\nSkipped:   %d", processed, skipped)
	p.printBox(fmt.Sprintf("Stage complete: %s", stage), content)
}
