package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/autoapply/internal/observability"
	"github.com/daniel/autoapply/internal/types"
)

var jobsStatus string

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List tracked pipeline jobs",
	RunE:  runJobs,
}

func init() {
	jobsCmd.Flags().StringVar(&jobsStatus, "status", "", "Only show jobs with this status")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	if jobsStatus != "" && !types.Status(jobsStatus).Valid() {
		return fmt.Errorf("unknown status %q", jobsStatus)
	}

	jobs := openStore(cfg).Load().PipelineJobs
	printer := observability.NewPrinter(os.Stdout)

	shown := 0
	for i := range jobs {
		if jobsStatus != "" && jobs[i].Status != types.Status(jobsStatus) {
			continue
		}
		shown++
		if cfg.Verbose {
			printer.PrintJob(&jobs[i])
			continue
		}
		fmt.Fprintf(os.Stdout, "%s  %-20s %-30s %s\n",
			jobs[i].ID[:8], jobs[i].Company, jobs[i].Role, jobs[i].Status)
	}

	if shown == 0 {
		fmt.Fprintln(os.Stdout, "No jobs tracked yet. Run 'autoapply scrape' to discover postings.")
	}
	return nil
}
