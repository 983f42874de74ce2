// Package scraper - github.go fetches the listing document from the GitHub
// Contents API.
package scraper

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultListingURL is the Contents API location of the internship listing
// README this assistant tracks.
const DefaultListingURL = "https://api.github.com/repos/SimplifyJobs/Summer2026-Internships/contents/README.md"

const fetchTimeout = 30 * time.Second

// Document is a fetched revision of the listing markdown.
type Document struct {
	Content  string // decoded markdown
	Revision string // GitHub blob SHA, recorded on discovered records
}

// FetchError describes a failed listing fetch. RateLimited marks the
// GitHub 403 case, which callers surface as a retryable condition.
type FetchError struct {
	URL         string
	Message     string
	RateLimited bool
	Cause       error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("listing fetch failed for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("listing fetch failed for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// SourceClient retrieves the listing document. Token, when set, is sent as
// a bearer credential to raise the unauthenticated rate limit.
type SourceClient struct {
	URL        string
	Token      string
	HTTPClient *http.Client
}

// NewSourceClient creates a client for the given Contents API URL. An empty
// url selects the default listing.
func NewSourceClient(url, token string) *SourceClient {
	if url == "" {
		url = DefaultListingURL
	}
	return &SourceClient{
		URL:        url,
		Token:      token,
		HTTPClient: &http.Client{Timeout: fetchTimeout},
	}
}

// contentsResponse is the subset of the Contents API payload we consume.
type contentsResponse struct {
	Content  string `json:"content"` // base64, newline-wrapped
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

// Fetch retrieves and decodes the current listing document.
func (c *SourceClient) Fetch(ctx context.Context) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, &FetchError{URL: c.URL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: c.URL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusForbidden {
		return nil, &FetchError{
			URL:         c.URL,
			Message:     "GitHub API rate limit exceeded",
			RateLimited: true,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			URL:     c.URL,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: c.URL, Message: "failed to read response body", Cause: err}
	}

	var contents contentsResponse
	if err := json.Unmarshal(body, &contents); err != nil {
		return nil, &FetchError{URL: c.URL, Message: "failed to parse contents response", Cause: err}
	}

	// The Contents API wraps base64 at 60 columns.
	encoded := strings.ReplaceAll(contents.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &FetchError{URL: c.URL, Message: "failed to decode document content", Cause: err}
	}

	return &Document{
		Content:  string(decoded),
		Revision: contents.SHA,
	}, nil
}
