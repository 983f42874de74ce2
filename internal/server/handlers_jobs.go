package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/daniel/autoapply/internal/pipeline"
	"github.com/daniel/autoapply/internal/scraper"
	"github.com/daniel/autoapply/internal/types"
)

// handleScrape triggers one discovery pass against the listing source.
// Concurrent requests share a single pass via singleflight.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	v, _, shared := s.scrapeGroup.Do("scrape", func() (any, error) {
		return s.scraper.Run(r.Context()), nil
	})
	result := v.(scraper.Result)

	if shared {
		w.Header().Set("X-Scrape-Coalesced", "true")
	}
	if result.Error != "" {
		s.jsonResponse(w, http.StatusBadGateway, result)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleListJobs returns the pipeline jobs, optionally filtered by status.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.store.Load().PipelineJobs

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := types.Status(raw)
		if !status.Valid() {
			s.errorFrom(w, &ErrValidation{Field: "status", Message: fmt.Sprintf("unknown status %q", raw)})
			return
		}
		filtered := make([]types.PipelineJob, 0, len(jobs))
		for _, job := range jobs {
			if job.Status == status {
				filtered = append(filtered, job)
			}
		}
		jobs = filtered
	}

	s.jsonResponse(w, http.StatusOK, jobs)
}

// handleGetJob returns a single pipeline job.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job := s.store.Load().JobByID(id)
	if job == nil {
		s.errorFrom(w, &pipeline.ErrJobNotFound{ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// patchJobRequest is the body accepted by PATCH /jobs/{id}.
type patchJobRequest struct {
	Status string `json:"status" validate:"required"`
}

// handlePatchJob updates a job's status through the keyed-patch path.
func (s *Server) handlePatchJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req patchJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorFrom(w, &ErrValidation{Field: "status", Message: "status is required"})
		return
	}
	status := types.Status(req.Status)
	if !status.Valid() {
		s.errorFrom(w, &ErrValidation{Field: "status", Message: fmt.Sprintf("unknown status %q", req.Status)})
		return
	}

	if s.store.Load().JobByID(id) == nil {
		s.errorFrom(w, &pipeline.ErrJobNotFound{ID: id})
		return
	}

	if err := s.store.UpdateListItem(types.ListPipelineJobs, id, map[string]any{
		"status":     string(status),
		"updated_at": types.NowISO(),
	}); err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Load().JobByID(id))
}

// handleAnalyzeJob fetches the job's posting and runs content extraction.
func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	if s.pipeline.Client == nil {
		s.errorFrom(w, &ErrServiceUnavailable{Service: "Gemini API"})
		return
	}

	id := r.PathValue("id")
	analysis, err := s.pipeline.Analyze(r.Context(), id)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleTailorJob generates the tailored resume and cover letter.
func (s *Server) handleTailorJob(w http.ResponseWriter, r *http.Request) {
	if s.pipeline.Client == nil {
		s.errorFrom(w, &ErrServiceUnavailable{Service: "Gemini API"})
		return
	}

	id := r.PathValue("id")
	job, err := s.pipeline.GenerateResume(r.Context(), id)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleCompileJob compiles the tailored resume to PDF and stores the
// artifact on the job.
func (s *Server) handleCompileJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	pdfBytes, err := s.pipeline.Compile(r.Context(), id)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":    id,
		"pdf_bytes": len(pdfBytes),
	})
}

// applyJobRequest is the optional body accepted by POST /jobs/{id}/apply.
type applyJobRequest struct {
	PortalURL string `json:"portal_url" validate:"omitempty,url"`
	Notes     string `json:"notes"`
}

// handleApplyJob records a submission on the job.
func (s *Server) handleApplyJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req applyJobRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			s.errorFrom(w, &ErrValidation{Field: "portal_url", Message: "portal_url must be a valid URL"})
			return
		}
	}

	if err := s.pipeline.MarkApplied(id, types.ApplicationData{
		PortalURL: req.PortalURL,
		Notes:     req.Notes,
	}); err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Load().JobByID(id))
}

// handleSkipJob marks the job skipped.
func (s *Server) handleSkipJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.pipeline.Skip(id); err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Load().JobByID(id))
}

// handleJobResumePDF streams the compiled PDF artifact.
func (s *Server) handleJobResumePDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job := s.store.Load().JobByID(id)
	if job == nil {
		s.errorFrom(w, &pipeline.ErrJobNotFound{ID: id})
		return
	}
	if job.ResumePDF == "" {
		s.errorResponse(w, http.StatusNotFound, "job has no compiled resume")
		return
	}

	pdfBytes, err := base64.StdEncoding.DecodeString(job.ResumePDF)
	if err != nil {
		s.errorFrom(w, errors.New("stored PDF artifact is corrupt"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "resume-"+id+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}
