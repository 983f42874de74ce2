// Package server provides the HTTP REST API for the application assistant.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/daniel/autoapply/internal/llm"
	"github.com/daniel/autoapply/internal/pdf"
	"github.com/daniel/autoapply/internal/pipeline"
	"github.com/daniel/autoapply/internal/scraper"
	"github.com/daniel/autoapply/internal/store"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      *store.Store
	scraper    *scraper.Scraper
	pipeline   *pipeline.Pipeline
	validate   *validator.Validate

	// scrapeGroup collapses concurrent discovery requests into a single
	// pass against the listing source.
	scrapeGroup singleflight.Group
}

// Config holds server configuration
type Config struct {
	Port              int
	StatePath         string
	APIKey            string
	GitHubToken       string
	SourceURL         string
	CompileServiceURL string
	UseBrowser        bool
	Verbose           bool
}

// New creates a new server instance. The Gemini client is optional: without
// an API key the analyze and tailor endpoints report the service as
// unconfigured instead of failing at startup.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.StatePath == "" {
		return nil, fmt.Errorf("state path is required")
	}

	st := store.New(cfg.StatePath)

	apiKey := cfg.APIKey
	token := cfg.GitHubToken
	settings := st.Load().Settings
	if apiKey == "" {
		apiKey = settings.GeminiAPIKey
	}
	if token == "" {
		token = settings.GitHubToken
	}

	var client llm.Client
	if apiKey != "" {
		c, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		client = c
	}

	pl := pipeline.New(st, client, pdf.NewCompiler(cfg.CompileServiceURL))
	pl.UseBrowser = cfg.UseBrowser
	pl.Verbose = cfg.Verbose

	s := &Server{
		store:    st,
		scraper:  scraper.New(st, scraper.NewSourceClient(cfg.SourceURL, token)),
		pipeline: pl,
		validate: validator.New(),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for analyze and compile calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request multiplexer.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /scrape", s.handleScrape)

	// Job endpoints
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("PATCH /jobs/{id}", s.handlePatchJob)
	mux.HandleFunc("POST /jobs/{id}/analyze", s.handleAnalyzeJob)
	mux.HandleFunc("POST /jobs/{id}/tailor", s.handleTailorJob)
	mux.HandleFunc("POST /jobs/{id}/compile", s.handleCompileJob)
	mux.HandleFunc("POST /jobs/{id}/apply", s.handleApplyJob)
	mux.HandleFunc("POST /jobs/{id}/skip", s.handleSkipJob)
	mux.HandleFunc("GET /jobs/{id}/resume.pdf", s.handleJobResumePDF)

	// Stored document endpoints
	mux.HandleFunc("GET /profile", s.handleGetProfile)
	mux.HandleFunc("PUT /profile", s.handlePutProfile)
	mux.HandleFunc("GET /resume", s.handleGetResume)
	mux.HandleFunc("PUT /resume", s.handlePutResume)
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PUT /settings", s.handlePutSettings)

	mux.HandleFunc("GET /activity", s.handleListActivity)

	// Snapshot endpoints
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("POST /import", s.handleImport)
	mux.HandleFunc("POST /reset", s.handleReset)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.pipeline.Client != nil {
		_ = s.pipeline.Client.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFrom maps a domain error onto its HTTP status and writes it
func (s *Server) errorFrom(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
