package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededState() AppState {
	state := DefaultState()
	state.PipelineJobs = append(state.PipelineJobs,
		PipelineJob{ID: "job-1", Company: "Acme", Role: "SWE Intern", Location: "NYC", Status: StatusNew},
		PipelineJob{ID: "job-2", Company: "Beta", Role: "QA Intern", Location: "SF", Status: StatusApplied},
	)
	state.SeenJobs = append(state.SeenJobs,
		SeenRecord{ID: "job-1"},
		SeenRecord{ID: "job-2"},
	)
	return state
}

func TestJobByID(t *testing.T) {
	t.Run("finds job by id", func(t *testing.T) {
		state := seededState()
		job := state.JobByID("job-2")
		require.NotNil(t, job)
		assert.Equal(t, "Beta", job.Company)
	})

	t.Run("missing id", func(t *testing.T) {
		state := seededState()
		assert.Nil(t, state.JobByID("missing"))
	})

	t.Run("callable on a returned aggregate", func(t *testing.T) {
		// Callers chain directly off Load()-style returns; the lookup must
		// not require an addressable aggregate.
		job := seededState().JobByID("job-1")
		require.NotNil(t, job)
		assert.Equal(t, "Acme", job.Company)
	})

	t.Run("returned pointer addresses the aggregate's slice", func(t *testing.T) {
		state := seededState()
		state.JobByID("job-1").Status = StatusSkipped
		assert.Equal(t, StatusSkipped, state.PipelineJobs[0].Status)
	})
}

func TestSeenIDs(t *testing.T) {
	state := seededState()
	ids := state.SeenIDs()
	assert.Len(t, ids, 2)
	_, ok := ids["job-1"]
	assert.True(t, ok)
}
