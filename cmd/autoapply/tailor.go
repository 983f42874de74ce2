package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/autoapply/internal/pdf"
	"github.com/daniel/autoapply/internal/pipeline"
)

var (
	tailorAPIKey string
	tailorOut    string
)

var tailorCmd = &cobra.Command{
	Use:   "tailor <job-id>",
	Short: "Generate a tailored resume and cover letter for a job",
	Long:  "Rewrite the master resume against the job's analysis and draft a cover letter. The job must be analyzed first.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTailor,
}

func init() {
	tailorCmd.Flags().StringVar(&tailorAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	tailorCmd.Flags().StringVarP(&tailorOut, "out", "o", "", "Also write the tailored LaTeX source to this file")
	rootCmd.AddCommand(tailorCmd)
}

func runTailor(_ *cobra.Command, args []string) error {
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
	client, err := newGeminiClient(ctx, resolveAPIKey(tailorAPIKey, st))
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	pl := pipeline.New(st, client, pdf.NewCompiler(cfg.CompileServiceURL))
	pl.Verbose = cfg.Verbose

	job, err := pl.GenerateResume(ctx, jobID)
	if err != nil {
		return err
	}

	if tailorOut != "" {
		if err := os.WriteFile(tailorOut, []byte(job.ResumeLatex), 0o644); err != nil {
			return fmt.Errorf("failed to write LaTeX output: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Output: %s\n", tailorOut)
	}

	fmt.Fprintf(os.Stdout, "Generated resume for %s - %s\n", job.Company, job.Role)
	if job.CoverLetter != "" {
		fmt.Fprintln(os.Stdout, "Cover letter drafted")
	}
	return nil
}
