// Package observability provides formatted output utilities for run
// summaries and verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxErrorsToShow is the number of source errors displayed in a summary
	maxErrorsToShow = 5
)

// Printer handles formatted output
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

// PrintRunSummary outputs a human-readable summary of one scrape run.
func (p *Printer) PrintRunSummary(stats types.ScrapeStats) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Greenhouse:    %d\n", stats.GreenhouseJobs))
	sb.WriteString(fmt.Sprintf("Lever:         %d\n", stats.LeverJobs))
	sb.WriteString(fmt.Sprintf("Workday:       %d\n", stats.WorkdayJobs))
	if stats.BrowserJobs > 0 {
		sb.WriteString(fmt.Sprintf("Browser:       %d\n", stats.BrowserJobs))
	}
	if stats.FallbackJobs > 0 {
		sb.WriteString(fmt.Sprintf("Fallback:      %d\n", stats.FallbackJobs))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total unique:  %d\n", stats.TotalScraped))
	sb.WriteString(fmt.Sprintf("After AI gate: %d\n", stats.AfterAIFilter))
	sb.WriteString(fmt.Sprintf("Newly staged:  %d\n", stats.NewJobsAdded))
	sb.WriteString(fmt.Sprintf("Duration:      %s", stats.Duration.Round(time.Millisecond)))

	if len(stats.Errors) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(stats.Errors)))
		count := min(len(stats.Errors), maxErrorsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", stats.Errors[i].Source, stats.Errors[i].Err))
		}
		if len(stats.Errors) > maxErrorsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(stats.Errors)-maxErrorsToShow))
		}
	}

	p.printBox("Scrape Run Summary", sb.String())
}

// PrintPendingJobs outputs the review queue in a compact table.
func (p *Printer) PrintPendingJobs(pending []types.PendingJob) {
	if len(pending) == 0 {
		fmt.Fprintln(p.out, "No pending jobs.")
		return
	}

	fmt.Fprintf(p.out, "%d pending jobs:\n\n", len(pending))
	for _, job := range pending {
		fmt.Fprintf(p.out, "  %s\n", job.ID)
		fmt.Fprintf(p.out, "    %s / %s (%s)\n", job.Company, job.Role, job.Location)
		fmt.Fprintf(p.out, "    years: %s  source: %s\n", job.YearsExp, job.Source)
		if job.Analysis != nil && job.Analysis.Reasoning != "" {
			fmt.Fprintf(p.out, "    ai: %s\n", job.Analysis.Reasoning)
		}
		fmt.Fprintf(p.out, "    %s\n\n", job.Link)
	}
}
