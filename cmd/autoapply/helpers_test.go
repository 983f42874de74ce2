package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/autoapply/internal/store"
	"github.com/daniel/autoapply/internal/types"
)

func newSeededStore(t *testing.T, ids ...string) *store.Store {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), store.DefaultFileName))
	state := types.DefaultState()
	for _, id := range ids {
		state.PipelineJobs = append(state.PipelineJobs, types.PipelineJob{
			ID: id, Company: "Acme", Role: "SWE Intern", Location: "NYC",
			Status: types.StatusNew, CreatedAt: types.NowISO(), UpdatedAt: types.NowISO(),
		})
	}
	require.NoError(t, st.Save(state))
	return st
}

func TestResolveJobID(t *testing.T) {
	st := newSeededStore(t, "abc123def456", "abd999000111")

	t.Run("exact match", func(t *testing.T) {
		id, err := resolveJobID(st, "abc123def456")
		require.NoError(t, err)
		assert.Equal(t, "abc123def456", id)
	})

	t.Run("unique prefix", func(t *testing.T) {
		id, err := resolveJobID(st, "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc123def456", id)
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		_, err := resolveJobID(st, "ab")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous")
	})

	t.Run("no match", func(t *testing.T) {
		_, err := resolveJobID(st, "zzz")
		assert.Error(t, err)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := resolveJobID(st, "")
		assert.Error(t, err)
	})
}

func TestResolveAPIKey(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), store.DefaultFileName))
	state := types.DefaultState()
	state.Settings.GeminiAPIKey = "settings-key"
	require.NoError(t, st.Save(state))

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		assert.Equal(t, "flag-key", resolveAPIKey("flag-key", st))
	})

	t.Run("env over settings", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		assert.Equal(t, "env-key", resolveAPIKey("", st))
	})

	t.Run("settings fallback", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		assert.Equal(t, "settings-key", resolveAPIKey("", st))
	})
}
