// Package analyzer calls the content-extraction service: it turns raw job
// posting content into the structured analysis attached to a pipeline job.
package analyzer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/daniel/autoapply/internal/fetch"
	"github.com/daniel/autoapply/internal/llm"
	"github.com/daniel/autoapply/internal/prompts"
	"github.com/daniel/autoapply/internal/types"
)

// maxPromptContent caps the posting text sent to the extraction service to
// stay inside context limits.
const maxPromptContent = 15000

// FetchOptions tunes posting-content retrieval.
type FetchOptions struct {
	// DelayMS is the politeness delay base before the fetch.
	DelayMS int
	// UseBrowser enables the headless-browser fallback for pages that
	// render the posting client-side.
	UseBrowser bool
	Verbose    bool
}

// FetchPostingContent retrieves the posting page and reduces it to main
// body text. A randomized politeness delay runs before the request.
func FetchPostingContent(ctx context.Context, url string, opts FetchOptions) (string, error) {
	if err := fetch.PolitenessDelay(ctx, opts.DelayMS); err != nil {
		return "", err
	}

	result, err := fetch.URL(ctx, url, nil)
	if err != nil {
		return "", err
	}

	text, err := fetch.ExtractMainText(result.HTML, fetch.JobPostingSelectors())
	if err != nil {
		return "", err
	}

	if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		if opts.Verbose {
			log.Printf("[VERBOSE] Content too short (%d chars), falling back to browser rendering", len(text))
		}
		html, browserErr := fetch.BrowserSimple(ctx, url, opts.Verbose)
		if browserErr != nil {
			if opts.Verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
		} else if rendered, extractErr := fetch.ExtractMainText(html, fetch.JobPostingSelectors()); extractErr == nil {
			text = rendered
		}
	}

	return text, nil
}

// Analyze sends posting content to the extraction service and parses the
// structured result.
func Analyze(ctx context.Context, client llm.Client, content string) (*types.JobAnalysis, error) {
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent]
	}

	template := prompts.MustGet("analysis.json", "analyze-posting")
	prompt := prompts.Format(template, map[string]string{"Content": content})

	response, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate analysis", Cause: err}
	}

	return parseAnalysis(response)
}

// parseAnalysis decodes the service response, tolerating a conversational
// preamble around the JSON payload.
func parseAnalysis(response string) (*types.JobAnalysis, error) {
	text := llm.CleanJSONBlock(response)

	var analysis types.JobAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		object := llm.ExtractJSONObject(text)
		if object == "" {
			return nil, &ParseError{Message: "no JSON object in response", Cause: err}
		}
		if err := json.Unmarshal([]byte(object), &analysis); err != nil {
			return nil, &ParseError{Message: "failed to parse analysis JSON", Cause: err}
		}
	}
	return &analysis, nil
}
