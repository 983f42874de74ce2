package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/daniel/autoapply/internal/store"
	"github.com/daniel/autoapply/internal/types"
)

// Result reports the outcome of a discovery run. Failures are carried in
// Error rather than raised: the caller decides whether to alert the user.
// Zero discoveries with an empty Error is success, indistinguishable from
// "no new jobs".
type Result struct {
	NewJobsCount int    `json:"new_jobs_count"`
	Error        string `json:"error,omitempty"`
}

// Extraction is the set of records emitted for previously unseen rows.
// Seen and Jobs are created in lock-step and share ids index-for-index.
type Extraction struct {
	Seen []types.SeenRecord
	Jobs []types.PipelineJob
}

// ExtractJobs parses the markdown listing and returns records for every
// valid row whose identity is not already in seenIDs. Calling it again
// with an identity set that includes the prior output yields an empty
// extraction; re-ingestion is idempotent.
func ExtractJobs(markdown, revision string, seenIDs map[string]struct{}) (*Extraction, error) {
	rows, err := ParseTable(markdown)
	if err != nil {
		return nil, err
	}

	now := types.NowISO()
	extraction := &Extraction{}
	for _, row := range rows {
		id := JobID(row.Company, row.Role, row.Location)
		if _, seen := seenIDs[id]; seen {
			continue
		}
		// Guard against duplicate rows within a single document.
		seenIDs[id] = struct{}{}

		datePosted := row.DatePosted
		if datePosted == "" {
			datePosted = now
		}

		extraction.Seen = append(extraction.Seen, types.SeenRecord{
			ID:             id,
			Company:        row.Company,
			Role:           row.Role,
			Location:       row.Location,
			DatePosted:     datePosted,
			URL:            row.URL,
			SourceRevision: revision,
			DateDiscovered: now,
		})
		extraction.Jobs = append(extraction.Jobs, types.PipelineJob{
			ID:         id,
			Company:    row.Company,
			Role:       row.Role,
			Location:   row.Location,
			DatePosted: datePosted,
			URL:        row.URL,
			Status:     types.StatusNew,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return extraction, nil
}

// Scraper runs discovery: fetch the listing, extract unseen rows, and
// merge them into the persisted state.
type Scraper struct {
	store  *store.Store
	source *SourceClient
}

// New creates a scraper that reads the listing via source and records
// discoveries in st.
func New(st *store.Store, source *SourceClient) *Scraper {
	return &Scraper{store: st, source: source}
}

// Run performs one discovery pass. Fetch and schema failures come back in
// Result.Error; they never panic or escape as errors.
func (s *Scraper) Run(ctx context.Context) Result {
	doc, err := s.source.Fetch(ctx)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) && fetchErr.RateLimited {
			return Result{Error: "GitHub API rate limit exceeded"}
		}
		return Result{Error: err.Error()}
	}
	return s.Ingest(doc.Content, doc.Revision)
}

// Ingest extracts unseen jobs from an already-fetched document revision
// and appends them to the store, recording one activity entry for the
// batch. Emitting zero records is success, not error.
func (s *Scraper) Ingest(markdown, revision string) Result {
	state := s.store.Load()

	extraction, err := ExtractJobs(markdown, revision, state.SeenIDs())
	if err != nil {
		return Result{Error: err.Error()}
	}

	count := len(extraction.Seen)
	if count == 0 {
		return Result{}
	}

	state.SeenJobs = append(state.SeenJobs, extraction.Seen...)
	state.PipelineJobs = append(state.PipelineJobs, extraction.Jobs...)
	entry := types.NewActivityEntry(
		types.ActionJobDiscovered,
		fmt.Sprintf("Found %d new jobs", count),
		types.ActivitySuccess,
	)
	state.ActivityLog = append([]types.ActivityEntry{entry}, state.ActivityLog...)

	// Insertion goes through full-list replacement; the keyed-patch path is
	// reserved for downstream stage updates.
	for key, value := range map[string]any{
		types.ListSeenJobs:     state.SeenJobs,
		types.ListPipelineJobs: state.PipelineJobs,
		types.ListActivityLog:  state.ActivityLog,
	} {
		if err := s.store.Set(key, value); err != nil {
			log.Printf("scraper: failed to persist %s: %v", key, err)
			return Result{NewJobsCount: count, Error: fmt.Sprintf("failed to persist discoveries: %v", err)}
		}
	}

	return Result{NewJobsCount: count}
}
