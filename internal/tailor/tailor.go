// Package tailor calls the document-tailoring service: it rewrites the
// master LaTeX resume against a job analysis and drafts a cover letter.
package tailor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/daniel/autoapply/internal/llm"
	"github.com/daniel/autoapply/internal/prompts"
	"github.com/daniel/autoapply/internal/types"
)

// TailorError represents a failed tailoring call.
type TailorError struct {
	Message string
	Cause   error
}

func (e *TailorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tailoring failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("tailoring failed: %s", e.Message)
}

func (e *TailorError) Unwrap() error {
	return e.Cause
}

// TailorResume produces a tailored LaTeX resume from the master template
// and the job analysis. The service is instructed to preserve structure
// and only rewrite section content; the response is returned with any
// markdown fencing stripped.
func TailorResume(ctx context.Context, client llm.Client, analysis *types.JobAnalysis, master *types.MasterResume) (string, error) {
	if master == nil || strings.TrimSpace(master.LatexSource) == "" {
		return "", &TailorError{Message: "master resume has no LaTeX source"}
	}
	if analysis == nil {
		return "", &TailorError{Message: "job has no analysis to tailor against"}
	}

	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", &TailorError{Message: "failed to serialize analysis", Cause: err}
	}

	template := prompts.MustGet("tailoring.json", "tailor-resume")
	prompt := prompts.Format(template, map[string]string{
		"MasterResume": master.LatexSource,
		"Analysis":     string(analysisJSON),
		"Skills":       strings.Join(analysis.TechnicalSkills, ", "),
	})

	response, err := client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", &TailorError{Message: "failed to generate tailored resume", Cause: err}
	}

	latex := llm.CleanLatexBlock(response)
	if strings.TrimSpace(latex) == "" {
		return "", &TailorError{Message: "service returned an empty document"}
	}
	return latex, nil
}

// DraftCoverLetter produces a cover letter body for a job from its
// analysis and the candidate profile.
func DraftCoverLetter(ctx context.Context, client llm.Client, job *types.PipelineJob, profile *types.UserProfile) (string, error) {
	if job.Analysis == nil {
		return "", &TailorError{Message: "job has no analysis to draft against"}
	}

	analysisJSON, err := json.MarshalIndent(job.Analysis, "", "  ")
	if err != nil {
		return "", &TailorError{Message: "failed to serialize analysis", Cause: err}
	}
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", &TailorError{Message: "failed to serialize profile", Cause: err}
	}

	template := prompts.MustGet("tailoring.json", "draft-cover-letter")
	prompt := prompts.Format(template, map[string]string{
		"Company":  job.Company,
		"Role":     job.Role,
		"Analysis": string(analysisJSON),
		"Profile":  string(profileJSON),
	})

	response, err := client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", &TailorError{Message: "failed to draft cover letter", Cause: err}
	}
	return strings.TrimSpace(response), nil
}
