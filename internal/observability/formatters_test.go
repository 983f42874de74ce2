package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daniel/autoapply/internal/types"
)

func TestPrintDiscovery(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	jobs := []types.PipelineJob{
		{Company: "Acme Corp", Role: "SWE Intern", Location: "New York, NY"},
		{Company: "Globex", Role: "Backend Intern", Location: "Remote"},
	}

	p.PrintDiscovery(jobs)
	output := buf.String()

	assert.Contains(t, output, "NEW JOBS DISCOVERED")
	assert.Contains(t, output, "Found 2 new jobs")
	assert.Contains(t, output, "Acme Corp - SWE Intern")
	assert.Contains(t, output, "Remote")
}

func TestPrintDiscovery_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDiscovery(nil)

	assert.Contains(t, buf.String(), "NO NEW JOBS FOUND")
}

func TestPrintJob(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	job := &types.PipelineJob{
		Company:  "Acme Corp",
		Role:     "SWE Intern",
		Location: "New York, NY",
		Status:   types.StatusFailed,
		Error:    "analysis service unavailable",
	}

	p.PrintJob(job)
	output := buf.String()

	assert.Contains(t, output, "PIPELINE JOB")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "analysis service unavailable")
}

func TestPrintJob_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJob(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	analysis := &types.JobAnalysis{
		Description:        "Backend internship on the platform team",
		TechnicalSkills:    []string{"Go", "PostgreSQL", "Kubernetes"},
		Responsibilities:   []string{"Build internal APIs", "Improve CI reliability"},
		InternshipDuration: "12 weeks",
		Compensation:       "$45/hr",
	}

	p.PrintAnalysis(analysis)
	output := buf.String()

	assert.Contains(t, output, "JOB POSTING ANALYSIS")
	assert.Contains(t, output, "Go")
	assert.Contains(t, output, "Build internal APIs")
	assert.Contains(t, output, "12 weeks")
	assert.Contains(t, output, "$45/hr")
}

func TestPrintActivity(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	entries := []types.ActivityEntry{
		{Action: types.ActionJobDiscovered, Details: "Found 3 new jobs", Status: types.ActivitySuccess},
		{Action: types.ActionError, Details: "compile failed", Status: types.ActivityFailed},
	}

	p.PrintActivity(entries)
	output := buf.String()

	assert.Contains(t, output, "RECENT ACTIVITY")
	assert.Contains(t, output, "Found 3 new jobs")
	assert.Contains(t, output, "job_discovered")
	assert.Contains(t, output, "compile failed")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	job := &types.PipelineJob{
		Company: "A Very Long Company Name That Should Be Truncated To Fit",
		Role:    "Senior Staff Principal Distinguished Intern Level 99",
	}

	p.PrintJob(job)
	output := buf.String()

	// Should contain box characters
	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "│"))
}
