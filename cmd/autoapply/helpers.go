package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/daniel/autoapply/internal/config"
	"github.com/daniel/autoapply/internal/llm"
	"github.com/daniel/autoapply/internal/store"
)

// defaultStatePath places the state file under the user's home directory.
// Falls back to the working directory when the home cannot be resolved.
func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return store.DefaultFileName
	}
	return filepath.Join(home, ".autoapply", store.DefaultFileName)
}

// resolveConfig merges the optional config file with built-in defaults and
// the global CLI flags. Flags win over the file, the file wins over
// defaults.
func resolveConfig() (config.Config, error) {
	cfg := config.Config{}

	if flagConfig != "" {
		loaded, err := config.LoadConfig(flagConfig)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		StatePath: defaultStatePath(),
		Port:      8080,
	})

	if env := os.Getenv("AUTOAPPLY_STATE"); env != "" {
		cfg.StatePath = env
	}
	if flagState != "" {
		cfg.StatePath = flagState
	}
	if flagVerbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openStore builds the store from resolved configuration.
func openStore(cfg config.Config) *store.Store {
	return store.New(cfg.StatePath)
}

// resolveAPIKey picks the Gemini key: explicit flag, then environment,
// then persisted settings.
func resolveAPIKey(flagValue string, st *store.Store) string {
	if flagValue != "" {
		return flagValue
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return st.Load().Settings.GeminiAPIKey
}

// resolveGitHubToken picks the listing source token: explicit flag, then
// environment, then persisted settings.
func resolveGitHubToken(flagValue string, st *store.Store) string {
	if flagValue != "" {
		return flagValue
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return st.Load().Settings.GitHubToken
}

// resolveJobID expands a job id prefix to the full content hash. Job ids
// are 64 hex characters; a unique prefix is enough on the command line.
func resolveJobID(st *store.Store, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("job id is required")
	}

	jobs := st.Load().PipelineJobs
	var match string
	for i := range jobs {
		if jobs[i].ID == idOrPrefix {
			return idOrPrefix, nil
		}
		if strings.HasPrefix(jobs[i].ID, idOrPrefix) {
			if match != "" {
				return "", fmt.Errorf("job id prefix %q is ambiguous", idOrPrefix)
			}
			match = jobs[i].ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no job matches id %q", idOrPrefix)
	}
	return match, nil
}

// newGeminiClient builds the Gemini client, failing with guidance when no
// key is configured.
func newGeminiClient(ctx context.Context, apiKey string) (llm.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required (set GEMINI_API_KEY, use --api-key, or store it in settings)")
	}
	return llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
}
