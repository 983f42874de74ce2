package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/autoapply/internal/server"
)

var (
	servePort        int
	serveAPIKey      string
	serveGitHubToken string
	serveSourceURL   string
	serveCompileURL  string
	serveUseBrowser  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for discovery, analysis, resume tailoring, and application tracking.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveGitHubToken, "github-token", "", "Token for the listing source API")
	serveCmd.Flags().StringVar(&serveSourceURL, "source-url", "", "Job listing source URL")
	serveCmd.Flags().StringVar(&serveCompileURL, "compile-url", "", "LaTeX compilation service URL")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Use headless browser for SPA posting pages")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveAPIKey != "" {
		cfg.APIKey = serveAPIKey
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if serveGitHubToken != "" {
		cfg.GitHubToken = serveGitHubToken
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	if serveSourceURL != "" {
		cfg.SourceURL = serveSourceURL
	}
	if serveCompileURL != "" {
		cfg.CompileServiceURL = serveCompileURL
	}
	if serveUseBrowser {
		cfg.UseBrowser = true
	}

	srv, err := server.New(context.Background(), server.Config{
		Port:              cfg.Port,
		StatePath:         cfg.StatePath,
		APIKey:            cfg.APIKey,
		GitHubToken:       cfg.GitHubToken,
		SourceURL:         cfg.SourceURL,
		CompileServiceURL: cfg.CompileServiceURL,
		UseBrowser:        cfg.UseBrowser,
		Verbose:           cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
