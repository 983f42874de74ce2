// Package types provides type definitions for the application state persisted by autoapply.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Status tracks a job's progress through the application workflow.
type Status string

// Pipeline status values.
const (
	StatusNew              Status = "new"
	StatusAnalyzing        Status = "analyzing"
	StatusAnalysisComplete Status = "analysis_complete"
	StatusResumeGenerated  Status = "resume_generated"
	StatusApplied          Status = "applied"
	StatusFailed           Status = "failed"
	StatusSkipped          Status = "skipped"
)

// Valid reports whether s is a known pipeline status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusAnalyzing, StatusAnalysisComplete,
		StatusResumeGenerated, StatusApplied, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// SeenRecord is the immutable ledger entry recording that a job identity
// has been observed. It is written once at discovery time and never updated.
type SeenRecord struct {
	ID             string `json:"id"` // content hash of company+role+location
	Company        string `json:"company"`
	Role           string `json:"role"`
	Location       string `json:"location"`
	DatePosted     string `json:"date_posted"` // ISO timestamp or source-provided date
	URL            string `json:"url"`
	SourceRevision string `json:"sha"`             // revision of the source document that produced it
	DateDiscovered string `json:"date_discovered"` // ISO timestamp of first observation
}

// JobAnalysis is the structured extraction result returned by the
// content-extraction service. The core treats it as an opaque payload.
type JobAnalysis struct {
	Description             string   `json:"description"`
	RequiredQualifications  []string `json:"required_qualifications"`
	PreferredQualifications []string `json:"preferred_qualifications"`
	TechnicalSkills         []string `json:"technical_skills"`
	SoftSkills              []string `json:"soft_skills"`
	Responsibilities        []string `json:"responsibilities"`
	CultureKeywords         []string `json:"culture_keywords"`
	InternshipDuration      string   `json:"internship_duration,omitempty"`
	Compensation            string   `json:"compensation,omitempty"`
}

// ApplicationData holds submission metadata for an applied job.
type ApplicationData struct {
	SubmittedAt string `json:"submitted_at,omitempty"`
	PortalURL   string `json:"portal_url,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// PipelineJob is the working record tracking one job through the
// application lifecycle. It shares its id with exactly one SeenRecord and
// accrues state field-by-field as downstream stages run.
type PipelineJob struct {
	ID              string           `json:"id"`
	Company         string           `json:"company"`
	Role            string           `json:"role"`
	Location        string           `json:"location"`
	DatePosted      string           `json:"date_posted"`
	URL             string           `json:"url"`
	Status          Status           `json:"status"`
	Analysis        *JobAnalysis     `json:"analysis,omitempty"`
	ResumeLatex     string           `json:"resume_latex,omitempty"`
	ResumePDF       string           `json:"resume_pdf_blob,omitempty"` // base64-encoded PDF
	CoverLetter     string           `json:"cover_letter,omitempty"`
	ApplicationData *ApplicationData `json:"application_data,omitempty"`
	Error           string           `json:"error,omitempty"` // last failure message
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

// NowISO returns the current time formatted the way all persisted
// timestamps are stored.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
