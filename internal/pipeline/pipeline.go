// Package pipeline drives individual jobs through the application
// lifecycle: analyze, tailor, compile, and submission tracking. Every
// stage persists its outcome through the store's keyed-patch path; a
// failed collaborator call marks the job failed with the message recorded
// for manual retry.
package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/daniel/autoapply/internal/analyzer"
	"github.com/daniel/autoapply/internal/latex"
	"github.com/daniel/autoapply/internal/llm"
	"github.com/daniel/autoapply/internal/pdf"
	"github.com/daniel/autoapply/internal/store"
	"github.com/daniel/autoapply/internal/tailor"
	"github.com/daniel/autoapply/internal/types"
)

// ErrJobNotFound indicates the requested pipeline job does not exist.
type ErrJobNotFound struct {
	ID string
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.ID)
}

// StageError wraps a collaborator failure with the stage that raised it.
// The affected job has already been marked failed when this is returned.
type StageError struct {
	Stage string
	JobID string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed for job %s: %v", e.Stage, e.JobID, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// Pipeline holds the injected dependencies the stages run against.
type Pipeline struct {
	Store    *store.Store
	Client   llm.Client
	Compiler *pdf.Compiler

	// UseBrowser enables the headless-browser fallback when posting pages
	// render client-side.
	UseBrowser bool
	Verbose    bool
}

// New creates a pipeline over the given store and collaborator clients.
func New(st *store.Store, client llm.Client, compiler *pdf.Compiler) *Pipeline {
	return &Pipeline{Store: st, Client: client, Compiler: compiler}
}

// Analyze fetches the job's posting content and runs the content-extraction
// service, attaching the structured analysis to the job.
func (p *Pipeline) Analyze(ctx context.Context, jobID string) (*types.JobAnalysis, error) {
	state := p.Store.Load()
	job := state.JobByID(jobID)
	if job == nil {
		return nil, &ErrJobNotFound{ID: jobID}
	}

	p.patchJob(jobID, map[string]any{"status": string(types.StatusAnalyzing)})

	content, err := analyzer.FetchPostingContent(ctx, job.URL, analyzer.FetchOptions{
		DelayMS:    state.Settings.RateLimitDelayMS,
		UseBrowser: p.UseBrowser,
		Verbose:    p.Verbose,
	})
	if err != nil {
		return nil, p.fail("analyze", jobID, err)
	}

	analysis, err := analyzer.Analyze(ctx, p.Client, content)
	if err != nil {
		return nil, p.fail("analyze", jobID, err)
	}

	p.patchJob(jobID, map[string]any{
		"status":   string(types.StatusAnalysisComplete),
		"analysis": analysis,
		"error":    "",
	})
	p.logActivity(activityFor(types.ActionJobAnalyzed, jobID,
		fmt.Sprintf("Analyzed %s - %s", job.Company, job.Role), types.ActivitySuccess))

	return analysis, nil
}

// GenerateResume tailors the master resume against the job's analysis and
// drafts a cover letter. The cover letter is best effort: a drafting
// failure leaves the field empty without failing the job.
func (p *Pipeline) GenerateResume(ctx context.Context, jobID string) (*types.PipelineJob, error) {
	state := p.Store.Load()
	job := state.JobByID(jobID)
	if job == nil {
		return nil, &ErrJobNotFound{ID: jobID}
	}
	if job.Analysis == nil {
		return nil, p.fail("tailor", jobID, fmt.Errorf("job has not been analyzed"))
	}

	resume, err := tailor.TailorResume(ctx, p.Client, job.Analysis, &state.MasterResume)
	if err != nil {
		return nil, p.fail("tailor", jobID, err)
	}

	letter, err := tailor.DraftCoverLetter(ctx, p.Client, job, &state.UserProfile)
	if err != nil {
		log.Printf("pipeline: cover letter draft failed for %s: %v", jobID, err)
		letter = ""
	}

	p.patchJob(jobID, map[string]any{
		"status":       string(types.StatusResumeGenerated),
		"resume_latex": resume,
		"cover_letter": letter,
		"error":        "",
	})
	p.logActivity(activityFor(types.ActionResumeGenerated, jobID,
		fmt.Sprintf("Generated resume for %s - %s", job.Company, job.Role), types.ActivitySuccess))

	updated := p.Store.Load().JobByID(jobID)
	return updated, nil
}

// Compile sends the tailored resume to the compilation service and stores
// the PDF artifact base64-encoded on the job. The raw bytes are returned
// for immediate download.
func (p *Pipeline) Compile(ctx context.Context, jobID string) ([]byte, error) {
	state := p.Store.Load()
	job := state.JobByID(jobID)
	if job == nil {
		return nil, &ErrJobNotFound{ID: jobID}
	}
	if strings.TrimSpace(job.ResumeLatex) == "" {
		return nil, p.fail("compile", jobID, fmt.Errorf("job has no tailored resume"))
	}

	if err := latex.CheckDocument(job.ResumeLatex); err != nil {
		return nil, p.fail("compile", jobID, err)
	}

	pdfBytes, err := p.Compiler.Compile(ctx, job.ResumeLatex)
	if err != nil {
		return nil, p.fail("compile", jobID, err)
	}

	p.patchJob(jobID, map[string]any{
		"resume_pdf_blob": base64.StdEncoding.EncodeToString(pdfBytes),
		"error":           "",
	})
	return pdfBytes, nil
}

// MarkApplied records a submission on the job.
func (p *Pipeline) MarkApplied(jobID string, data types.ApplicationData) error {
	state := p.Store.Load()
	job := state.JobByID(jobID)
	if job == nil {
		return &ErrJobNotFound{ID: jobID}
	}
	if data.SubmittedAt == "" {
		data.SubmittedAt = types.NowISO()
	}

	p.patchJob(jobID, map[string]any{
		"status":           string(types.StatusApplied),
		"application_data": data,
	})
	p.logActivity(activityFor(types.ActionApplicationSubmitted, jobID,
		fmt.Sprintf("Applied to %s - %s", job.Company, job.Role), types.ActivitySuccess))
	return nil
}

// Skip marks the job skipped so it stops surfacing in the work queue.
func (p *Pipeline) Skip(jobID string) error {
	state := p.Store.Load()
	if state.JobByID(jobID) == nil {
		return &ErrJobNotFound{ID: jobID}
	}
	p.patchJob(jobID, map[string]any{"status": string(types.StatusSkipped)})
	return nil
}

// fail marks the job failed with the collaborator's message and returns a
// StageError for the caller to surface.
func (p *Pipeline) fail(stage, jobID string, cause error) error {
	p.patchJob(jobID, map[string]any{
		"status": string(types.StatusFailed),
		"error":  cause.Error(),
	})
	p.logActivity(activityFor(types.ActionError, jobID,
		fmt.Sprintf("%s failed: %v", stage, cause), types.ActivityFailed))
	return &StageError{Stage: stage, JobID: jobID, Cause: cause}
}

// patchJob applies a keyed partial update, always bumping updated_at.
// Persistence failures here are warnings: losing one patch must not crash
// a stage.
func (p *Pipeline) patchJob(jobID string, fields map[string]any) {
	fields["updated_at"] = types.NowISO()
	if err := p.Store.UpdateListItem(types.ListPipelineJobs, jobID, fields); err != nil {
		log.Printf("pipeline: failed to persist update for %s: %v", jobID, err)
	}
}

func (p *Pipeline) logActivity(entry types.ActivityEntry) {
	if err := p.Store.LogActivity(entry); err != nil {
		log.Printf("pipeline: failed to record activity: %v", err)
	}
}

func activityFor(action types.Action, jobID, details string, status types.ActivityStatus) types.ActivityEntry {
	entry := types.NewActivityEntry(action, details, status)
	entry.JobID = jobID
	return entry
}
