package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/autoapply/internal/pdf"
	"github.com/daniel/autoapply/internal/pipeline"
)

var compileOut string

var compileCmd = &cobra.Command{
	Use:   "compile <job-id>",
	Short: "Compile a job's tailored resume to PDF",
	Long:  "Send the tailored LaTeX resume to the compilation service, store the PDF on the job, and write it to disk.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "resume.pdf", "Path for the compiled PDF")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(_ *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	jobID, err := resolveJobID(st, args[0])
	if err != nil {
		return err
	}

	pl := pipeline.New(st, nil, pdf.NewCompiler(cfg.CompileServiceURL))
	pl.Verbose = cfg.Verbose

	pdfBytes, err := pl.Compile(context.Background(), jobID)
	if err != nil {
		return err
	}

	if err := os.WriteFile(compileOut, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Compiled %d bytes\n", len(pdfBytes))
	fmt.Fprintf(os.Stdout, "Output: %s\n", compileOut)
	return nil
}
