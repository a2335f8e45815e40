// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/review-generator/internal/checkpoint"
	"github.com/jonathan/review-generator/internal/driver"
	"github.com/jonathan/review-generator/internal/retry"
	"github.com/jonathan/review-generator/internal/types"
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

// PrintCatalog outputs a human-readable preview of the loaded work items.
func (p *Printer) PrintCatalog(items []types.WorkItem, mode types.Mode) {
	var sb strings.Builder

	lo, hi := mode.TargetRange()
	sb.WriteString(fmt.Sprintf("Items:    %d\n", len(items)))
	sb.WriteString(fmt.Sprintf("Mode:     %s (%d-%d reviews/item)\n", mode, lo, hi))
	sb.WriteString("\n")

	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i].DisplayName()))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}

	p.printBox("Input Catalog", strings.TrimRight(sb.String(), "\n"))
}

// PrintSummary outputs the final run summary with retry statistics.
func (p *Printer) PrintSummary(summary *driver.Summary, stats retry.Stats) {
	if summary == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run ID:      %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Signature:   %s\n", summary.Signature))
	if summary.Resumed {
		sb.WriteString("Resumed:     yes\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Items:       %d\n", summary.Items))
	sb.WriteString(fmt.Sprintf("Reviews:     %d (%d this session)\n", summary.TotalReviews, summary.ReviewsThisSession))
	sb.WriteString(fmt.Sprintf("Checkpoints: %d\n", summary.CheckpointsWritten))
	sb.WriteString(fmt.Sprintf("Backups:     %d\n", summary.BackupsWritten))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Retries:     %d\n", stats.Retries))
	sb.WriteString(fmt.Sprintf("Fallbacks:   %d\n", stats.Fallbacks))
	sb.WriteString(fmt.Sprintf("Elapsed:     %s", summary.Elapsed.Round(time.Second)))

	p.printBox("Run Summary", sb.String())
}

// PrintCheckpoints outputs the checkpoint listing for a signature, newest
// first (the status command's body).
func (p *Printer) PrintCheckpoints(signature string, handles []checkpoint.Handle) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Signature: %s\n", signature))
	sb.WriteString("\n")

	if len(handles) == 0 {
		sb.WriteString("No checkpoints found.")
		p.printBox("Checkpoint Status", sb.String())
		return
	}

	for _, h := range handles {
		tag := ""
		if h.IsFinal() {
			tag = " [final]"
		}
		sb.WriteString(fmt.Sprintf("  %s%s\n", h.Name(), tag))
		sb.WriteString(fmt.Sprintf("    %.1f KB, %s ago\n",
			float64(h.SizeBytes)/1024, time.Since(h.ModTime).Round(time.Minute)))
	}

	p.printBox("Checkpoint Status", strings.TrimRight(sb.String(), "\n"))
}
