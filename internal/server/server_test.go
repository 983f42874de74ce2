package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/autoapply/internal/llm"
	"github.com/daniel/autoapply/internal/pdf"
	"github.com/daniel/autoapply/internal/pipeline"
	"github.com/daniel/autoapply/internal/scraper"
	"github.com/daniel/autoapply/internal/store"
	"github.com/daniel/autoapply/internal/types"
)

type fakeClient struct {
	responses map[llm.ModelTier]string
	err       error
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
	return f.responses[tier], f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
	return f.responses[tier], f.err
}

func (f *fakeClient) Close() error { return nil }

const testListing = `# Summer Internships
| Company | Role | Location |
| --- |
| [Acme](https://acme.com) | SWE Intern | NYC | https://acme.com/apply | 2025-01-01 |
`

// newTestServer builds a server over a temp-dir store with injected
// collaborators. client may be nil to exercise the unconfigured path.
func newTestServer(t *testing.T, client llm.Client, sourceURL string) (*Server, *store.Store) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), store.DefaultFileName))

	pl := pipeline.New(st, client, pdf.NewCompiler(""))
	s := &Server{
		store:    st,
		scraper:  scraper.New(st, scraper.NewSourceClient(sourceURL, "")),
		pipeline: pl,
		validate: validator.New(),
	}
	return s, st
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func seedJob(t *testing.T, st *store.Store, job types.PipelineJob) {
	t.Helper()
	state := st.Load()
	state.PipelineJobs = append(state.PipelineJobs, job)
	require.NoError(t, st.Save(state))
}

func testJob(id string, status types.Status) types.PipelineJob {
	now := types.NowISO()
	return types.PipelineJob{
		ID: id, Company: "Acme", Role: "SWE Intern", Location: "NYC",
		URL: "https://acme.com/apply", Status: status,
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t, nil, "")
	rec := doRequest(s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleScrape(t *testing.T) {
	t.Run("discovers jobs from the listing source", func(t *testing.T) {
		source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			payload := map[string]string{
				"content":  base64.StdEncoding.EncodeToString([]byte(testListing)),
				"encoding": "base64",
				"sha":      "rev-1",
			}
			_ = json.NewEncoder(w).Encode(payload)
		}))
		defer source.Close()

		s, st := newTestServer(t, nil, source.URL)
		rec := doRequest(s, http.MethodPost, "/scrape", "")

		require.Equal(t, http.StatusOK, rec.Code)

		var result scraper.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, 1, result.NewJobsCount)
		assert.Empty(t, result.Error)

		state := st.Load()
		require.Len(t, state.PipelineJobs, 1)
		assert.Equal(t, "Acme", state.PipelineJobs[0].Company)
	})

	t.Run("source failure surfaces as bad gateway", func(t *testing.T) {
		source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer source.Close()

		s, _ := newTestServer(t, nil, source.URL)
		rec := doRequest(s, http.MethodPost, "/scrape", "")

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "error")
	})
}

func TestHandleListJobs(t *testing.T) {
	s, st := newTestServer(t, nil, "")
	seedJob(t, st, testJob("job-1", types.StatusNew))
	seedJob(t, st, testJob("job-2", types.StatusApplied))

	t.Run("all jobs", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/jobs", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var jobs []types.PipelineJob
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
		assert.Len(t, jobs, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/jobs?status=applied", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var jobs []types.PipelineJob
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
		require.Len(t, jobs, 1)
		assert.Equal(t, "job-2", jobs[0].ID)
	})

	t.Run("unknown status", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/jobs?status=bogus", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetJob(t *testing.T) {
	s, st := newTestServer(t, nil, "")
	seedJob(t, st, testJob("job-1", types.StatusNew))

	rec := doRequest(s, http.MethodGet, "/jobs/job-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme")

	rec = doRequest(s, http.MethodGet, "/jobs/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePatchJob(t *testing.T) {
	t.Run("updates status", func(t *testing.T) {
		s, st := newTestServer(t, nil, "")
		seedJob(t, st, testJob("job-1", types.StatusNew))

		rec := doRequest(s, http.MethodPatch, "/jobs/job-1", `{"status": "skipped"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, types.StatusSkipped, st.Load().JobByID("job-1").Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		s, st := newTestServer(t, nil, "")
		seedJob(t, st, testJob("job-1", types.StatusNew))

		rec := doRequest(s, http.MethodPatch, "/jobs/job-1", `{"status": "bogus"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, types.StatusNew, st.Load().JobByID("job-1").Status)
	})

	t.Run("rejects missing status", func(t *testing.T) {
		s, _ := newTestServer(t, nil, "")
		rec := doRequest(s, http.MethodPatch, "/jobs/job-1", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown job", func(t *testing.T) {
		s, _ := newTestServer(t, nil, "")
		rec := doRequest(s, http.MethodPatch, "/jobs/missing", `{"status": "skipped"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleAnalyzeJob(t *testing.T) {
	t.Run("unconfigured client", func(t *testing.T) {
		s, st := newTestServer(t, nil, "")
		seedJob(t, st, testJob("job-1", types.StatusNew))

		rec := doRequest(s, http.MethodPost, "/jobs/job-1/analyze", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("attaches analysis", func(t *testing.T) {
		posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html><body><div class="job-description">Go internship posting text.</div></body></html>`))
		}))
		defer posting.Close()

		client := &fakeClient{responses: map[llm.ModelTier]string{
			llm.TierStandard: `{"description": "Go internship", "technical_skills": ["Go"]}`,
		}}
		s, st := newTestServer(t, client, "")

		job := testJob("job-1", types.StatusNew)
		job.URL = posting.URL
		state := st.Load()
		state.Settings.RateLimitDelayMS = 0
		state.PipelineJobs = append(state.PipelineJobs, job)
		require.NoError(t, st.Save(state))

		rec := doRequest(s, http.MethodPost, "/jobs/job-1/analyze", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Go internship")
		assert.Equal(t, types.StatusAnalysisComplete, st.Load().JobByID("job-1").Status)
	})

	t.Run("stage failure maps to bad gateway", func(t *testing.T) {
		posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html><body>text</body></html>`))
		}))
		defer posting.Close()

		client := &fakeClient{err: fmt.Errorf("quota exceeded")}
		s, st := newTestServer(t, client, "")

		job := testJob("job-1", types.StatusNew)
		job.URL = posting.URL
		state := st.Load()
		state.Settings.RateLimitDelayMS = 0
		state.PipelineJobs = append(state.PipelineJobs, job)
		require.NoError(t, st.Save(state))

		rec := doRequest(s, http.MethodPost, "/jobs/job-1/analyze", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, types.StatusFailed, st.Load().JobByID("job-1").Status)
	})
}

func TestHandleApplyJob(t *testing.T) {
	t.Run("records submission", func(t *testing.T) {
		s, st := newTestServer(t, nil, "")
		seedJob(t, st, testJob("job-1", types.StatusResumeGenerated))

		rec := doRequest(s, http.MethodPost, "/jobs/job-1/apply",
			`{"portal_url": "https://acme.com/portal", "notes": "submitted"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		job := st.Load().JobByID("job-1")
		assert.Equal(t, types.StatusApplied, job.Status)
		require.NotNil(t, job.ApplicationData)
		assert.Equal(t, "submitted", job.ApplicationData.Notes)
		assert.NotEmpty(t, job.ApplicationData.SubmittedAt)
	})

	t.Run("empty body is accepted", func(t *testing.T) {
		s, st := newTestServer(t, nil, "")
		seedJob(t, st, testJob("job-1", types.StatusResumeGenerated))

		rec := doRequest(s, http.MethodPost, "/jobs/job-1/apply", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects malformed portal URL", func(t *testing.T) {
		s, st := newTestServer(t, nil, "")
		seedJob(t, st, testJob("job-1", types.StatusResumeGenerated))

		rec := doRequest(s, http.MethodPost, "/jobs/job-1/apply", `{"portal_url": "not a url"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleJobResumePDF(t *testing.T) {
	pdfBytes := []byte("%PDF-1.5 fake")

	t.Run("streams stored artifact", func(t *testing.T) {
		s, st := newTestServer(t, nil, "")
		job := testJob("job-1", types.StatusResumeGenerated)
		job.ResumePDF = base64.StdEncoding.EncodeToString(pdfBytes)
		seedJob(t, st, job)

		rec := doRequest(s, http.MethodGet, "/jobs/job-1/resume.pdf", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, pdfBytes, rec.Body.Bytes())
	})

	t.Run("no artifact", func(t *testing.T) {
		s, st := newTestServer(t, nil, "")
		seedJob(t, st, testJob("job-1", types.StatusNew))

		rec := doRequest(s, http.MethodGet, "/jobs/job-1/resume.pdf", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProfileEndpoints(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s, _ := newTestServer(t, nil, "")

		rec := doRequest(s, http.MethodPut, "/profile", `{
			"personal_info": {"full_name": "Dana Doe", "email": "dana@example.com"},
			"education": {"university": "State U"},
			"work_authorization": {"us_citizen": true},
			"demographics": {},
			"custom_responses": {"why_us": "I like the team"}
		}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(s, http.MethodGet, "/profile", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Dana Doe")
		assert.Contains(t, rec.Body.String(), "why_us")
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		s, _ := newTestServer(t, nil, "")
		rec := doRequest(s, http.MethodPut, "/profile", `{
			"personal_info": {"full_name": "Dana Doe", "email": "not-an-email"}
		}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResumeEndpoints(t *testing.T) {
	s, st := newTestServer(t, nil, "")

	rec := doRequest(s, http.MethodPut, "/resume", `{"latex_source": "\\documentclass{article}"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resume := st.Load().MasterResume
	assert.Contains(t, resume.LatexSource, "documentclass")
	assert.NotEmpty(t, resume.LastModified)
}

func TestSettingsEndpoints(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s, st := newTestServer(t, nil, "")

		rec := doRequest(s, http.MethodPut, "/settings", `{
			"rate_limit_delay": 5000,
			"auto_check_enabled": true,
			"auto_check_time": "08:00",
			"notification_enabled": false,
			"preferred_locations": ["NYC", "Remote"]
		}`)
		require.Equal(t, http.StatusOK, rec.Code)

		settings := st.Load().Settings
		assert.Equal(t, 5000, settings.RateLimitDelayMS)
		assert.Equal(t, []string{"NYC", "Remote"}, settings.PreferredLocations)
	})

	t.Run("rejects negative delay", func(t *testing.T) {
		s, _ := newTestServer(t, nil, "")
		rec := doRequest(s, http.MethodPut, "/settings", `{"rate_limit_delay": -1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleListActivity(t *testing.T) {
	s, st := newTestServer(t, nil, "")
	require.NoError(t, st.LogActivity(types.NewActivityEntry(types.ActionJobDiscovered, "Found 2 new jobs", types.ActivitySuccess)))
	require.NoError(t, st.LogActivity(types.NewActivityEntry(types.ActionError, "compile failed", types.ActivityFailed)))

	rec := doRequest(s, http.MethodGet, "/activity?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []types.ActivityEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	// Most recent entry first.
	assert.Equal(t, types.ActionError, entries[0].Action)
}

func TestSnapshotEndpoints(t *testing.T) {
	t.Run("export then import restores state", func(t *testing.T) {
		src, srcStore := newTestServer(t, nil, "")
		seedJob(t, srcStore, testJob("job-1", types.StatusApplied))

		rec := doRequest(src, http.MethodGet, "/export", "")
		require.Equal(t, http.StatusOK, rec.Code)
		snapshot := rec.Body.String()

		dst, dstStore := newTestServer(t, nil, "")
		rec = doRequest(dst, http.MethodPost, "/import", snapshot)
		require.Equal(t, http.StatusOK, rec.Code)

		restored := dstStore.Load().JobByID("job-1")
		require.NotNil(t, restored)
		assert.Equal(t, types.StatusApplied, restored.Status)
	})

	t.Run("rejects invalid snapshot", func(t *testing.T) {
		s, _ := newTestServer(t, nil, "")
		rec := doRequest(s, http.MethodPost, "/import", `{"jobs_table": "not a list"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		s, st := newTestServer(t, nil, "")
		seedJob(t, st, testJob("job-1", types.StatusApplied))

		rec := doRequest(s, http.MethodPost, "/reset", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, st.Load().PipelineJobs)
	})
}
