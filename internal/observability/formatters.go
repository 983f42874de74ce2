// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/daniel/autoapply/internal/types"
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

// PrintDiscovery outputs a summary of newly discovered jobs after a listing check.
func (p *Printer) PrintDiscovery(jobs []types.PipelineJob) {
	if len(jobs) == 0 {
		//nolint:errcheck // writing to stdout; errors are not recoverable
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO NEW JOBS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d new jobs:\n\n", len(jobs)))

	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		sb.WriteString(fmt.Sprintf("• %s - %s\n", job.Company, job.Role))
		sb.WriteString(fmt.Sprintf("  %s\n", job.Location))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(jobs)-maxItemsToShow))
	}

	p.printBox("NEW JOBS DISCOVERED", sb.String())
}

// PrintJob outputs a human-readable summary of a pipeline job.
func (p *Printer) PrintJob(job *types.PipelineJob) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Company))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", job.Role))
	sb.WriteString(fmt.Sprintf("Location: %s\n", job.Location))
	sb.WriteString(fmt.Sprintf("Status:   %s", job.Status))
	if job.Error != "" {
		errMsg := job.Error
		if len(errMsg) > 45 {
			errMsg = errMsg[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("\n\n⚠ %s", errMsg))
	}

	p.printBox("PIPELINE JOB", sb.String())
}

// PrintAnalysis outputs the structured analysis extracted from a posting.
func (p *Printer) PrintAnalysis(analysis *types.JobAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder

	desc := analysis.Description
	if len(desc) > 50 {
		desc = desc[:47] + "..."
	}
	if desc != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", desc))
	}

	if len(analysis.TechnicalSkills) > 0 {
		sb.WriteString("Technical Skills:\n")
		count := min(len(analysis.TechnicalSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.TechnicalSkills[i]))
		}
		if len(analysis.TechnicalSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.TechnicalSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(analysis.Responsibilities) > 0 {
		sb.WriteString("Responsibilities:\n")
		count := min(len(analysis.Responsibilities), 3)
		for i := 0; i < count; i++ {
			resp := analysis.Responsibilities[i]
			if len(resp) > 50 {
				resp = resp[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", resp))
		}
		if len(analysis.Responsibilities) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.Responsibilities)-3))
		}
		sb.WriteString("\n")
	}

	if analysis.InternshipDuration != "" {
		sb.WriteString(fmt.Sprintf("Duration:     %s\n", analysis.InternshipDuration))
	}
	if analysis.Compensation != "" {
		sb.WriteString(fmt.Sprintf("Compensation: %s\n", analysis.Compensation))
	}

	p.printBox("JOB POSTING ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintActivity outputs the most recent activity log entries.
func (p *Printer) PrintActivity(entries []types.ActivityEntry) {
	if len(entries) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		e := entries[i]
		details := e.Details
		if len(details) > 45 {
			details = details[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Status, e.Action))
		sb.WriteString(fmt.Sprintf("  %s\n", details))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more entries", len(entries)-maxItemsToShow))
	}

	p.printBox("RECENT ACTIVITY", strings.TrimSuffix(sb.String(), "\n"))
}
