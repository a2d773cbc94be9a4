// Package observability provides formatted terminal output for batch runs.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/marcus/coldopen/internal/types"
	"github.com/marcus/coldopen/internal/workflow"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxSnippetsToShow caps research snippets displayed per result
	maxSnippetsToShow = 2
)

// Printer handles formatted output for batch runs
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

// PrintResults outputs one block per URL: the opener with its scrape source
// and a research preview, or the failure reason.
func (p *Printer) PrintResults(results []types.GenerationResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder

	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}

		label := r.Name
		if label == "" {
			label = r.URL
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, label))
		if r.Name != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", r.URL))
		}
		if r.ScrapeTier != "" {
			sb.WriteString(fmt.Sprintf("   source: %s\n", r.ScrapeTier))
		}

		if r.Error != "" {
			sb.WriteString(fmt.Sprintf("   ✗ %s\n", r.Error))
			continue
		}

		for _, line := range wrapText(r.Opener, boxWidth-8) {
			sb.WriteString(fmt.Sprintf("   %s\n", line))
		}

		count := min(len(r.ResearchSnippets), maxSnippetsToShow)
		for j := 0; j < count; j++ {
			sb.WriteString(fmt.Sprintf("   • %s\n", r.ResearchSnippets[j]))
		}
		if len(r.ResearchSnippets) > count {
			sb.WriteString(fmt.Sprintf("   ... and %d more snippets\n", len(r.ResearchSnippets)-count))
		}
	}

	p.printBox("GENERATED OPENERS", strings.TrimRight(sb.String(), "\n"))
}

// PrintSummary outputs the batch counts after a round completes.
func (p *Printer) PrintSummary(results []types.GenerationResult) {
	if len(results) == 0 {
		return
	}

	var generated, manual, failed int
	for _, r := range results {
		switch {
		case r.Error != "":
			failed++
		default:
			generated++
			if r.ScrapeTier == types.TierManual {
				manual++
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URLs processed:    %d\n", len(results)))
	sb.WriteString(fmt.Sprintf("Openers generated: %d", generated))
	if manual > 0 {
		sb.WriteString(fmt.Sprintf(" (%d from pasted text)", manual))
	}
	if failed > 0 {
		sb.WriteString(fmt.Sprintf("\nFailed:            %d", failed))
	}

	p.printBox("BATCH SUMMARY", sb.String())
}

// PrintManualPrompts lists the failed URLs awaiting pasted profile text.
func (p *Printer) PrintManualPrompts(items []workflow.ManualPrompt) {
	if len(items) == 0 {
		return
	}

	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.URL))
		sb.WriteString(fmt.Sprintf("   %s", item.Reason))
	}

	p.printBox("MANUAL INPUT NEEDED", sb.String())
}

// Notice prints an operator-facing warning line outside any box.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Notice(message string) {
	fmt.Fprintf(p.out, "✗ %s\n", message)
}

// wrapText word-wraps s to the given width. Words longer than the width are
// split hard so no output line ever exceeds it.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""
	for _, word := range words {
		for len(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
