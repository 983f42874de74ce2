package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/autoapply/internal/pipeline"
	"github.com/daniel/autoapply/internal/types"
)

var (
	applyPortalURL string
	applyNotes     string
)

var applyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Record that an application was submitted",
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

var skipCmd = &cobra.Command{
	Use:   "skip <job-id>",
	Short: "Mark a job skipped so it stops surfacing",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkip,
}

func init() {
	applyCmd.Flags().StringVar(&applyPortalURL, "portal-url", "", "Application portal URL")
	applyCmd.Flags().StringVar(&applyNotes, "notes", "", "Free-form submission notes")
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(skipCmd)
}

func runApply(_ *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	jobID, err := resolveJobID(st, args[0])
	if err != nil {
		return err
	}

	pl := pipeline.New(st, nil, nil)
	if err := pl.MarkApplied(jobID, types.ApplicationData{
		PortalURL: applyPortalURL,
		Notes:     applyNotes,
	}); err != nil {
		return err
	}

	job := st.Load().JobByID(jobID)
	fmt.Fprintf(os.Stdout, "Recorded application to %s - %s\n", job.Company, job.Role)
	return nil
}

func runSkip(_ *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	jobID, err := resolveJobID(st, args[0])
	if err != nil {
		return err
	}

	pl := pipeline.New(st, nil, nil)
	if err := pl.Skip(jobID); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Skipped %s\n", jobID[:8])
	return nil
}
