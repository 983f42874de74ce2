package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/autoapply/internal/observability"
	"github.com/daniel/autoapply/internal/pdf"
	"github.com/daniel/autoapply/internal/pipeline"
)

var (
	analyzeAPIKey     string
	analyzeUseBrowser bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <job-id>",
	Short: "Fetch a job's posting and extract its requirements",
	Long:  "Fetch the posting page for a tracked job, extract the main content, and attach a structured analysis of requirements, skills, and responsibilities.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for SPA posting pages")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	jobID, err := resolveJobID(st, args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := newGeminiClient(ctx, resolveAPIKey(analyzeAPIKey, st))
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	pl := pipeline.New(st, client, pdf.NewCompiler(cfg.CompileServiceURL))
	pl.UseBrowser = analyzeUseBrowser || cfg.UseBrowser
	pl.Verbose = cfg.Verbose

	analysis, err := pl.Analyze(ctx, jobID)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintAnalysis(analysis)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Analysis complete: %d technical skills, %d responsibilities\n",
		len(analysis.TechnicalSkills), len(analysis.Responsibilities))
	return nil
}
