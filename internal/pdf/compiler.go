// Package pdf is the client for the document-compilation service that
// turns tailored LaTeX into a PDF artifact.
package pdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultServiceURL is the public compile endpoint used when none is
// configured.
const DefaultServiceURL = "https://latexonline.cc/compile"

const compileTimeout = 120 * time.Second

// CompileError describes a failed compilation call. The service's response
// body (usually a compiler log) is preserved for display.
type CompileError struct {
	StatusCode int
	Log        string
	Cause      error
}

func (e *CompileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("PDF compilation failed: %v", e.Cause)
	}
	return fmt.Sprintf("PDF compilation failed: HTTP status %d", e.StatusCode)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Compiler posts LaTeX source to the compilation service.
type Compiler struct {
	ServiceURL string
	HTTPClient *http.Client
}

// NewCompiler creates a compiler client. An empty serviceURL selects the
// default public endpoint.
func NewCompiler(serviceURL string) *Compiler {
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}
	return &Compiler{
		ServiceURL: serviceURL,
		HTTPClient: &http.Client{Timeout: compileTimeout},
	}
}

// Compile submits the LaTeX source and returns the compiled PDF bytes.
func (c *Compiler) Compile(ctx context.Context, latexSource string) ([]byte, error) {
	form := url.Values{}
	form.Set("text", latexSource)
	form.Set("command", "pdflatex")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ServiceURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &CompileError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &CompileError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CompileError{Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &CompileError{StatusCode: resp.StatusCode, Log: string(body)}
	}
	return body, nil
}
