package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/autoapply/internal/observability"
	"github.com/daniel/autoapply/internal/scraper"
)

var (
	scrapeSourceURL   string
	scrapeGitHubToken string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Check the listing for new internship postings",
	Long:  "Fetch the curated internship listing, extract rows not seen before, and record them as new pipeline jobs.",
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeSourceURL, "source-url", "", "Job listing source URL")
	scrapeCmd.Flags().StringVar(&scrapeGitHubToken, "github-token", "", "Token for the listing source API")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	sourceURL := scrapeSourceURL
	if sourceURL == "" {
		sourceURL = cfg.SourceURL
	}
	token := resolveGitHubToken(scrapeGitHubToken, st)

	sc := scraper.New(st, scraper.NewSourceClient(sourceURL, token))
	result := sc.Run(context.Background())
	if result.Error != "" {
		return fmt.Errorf("discovery failed: %s", result.Error)
	}

	if cfg.Verbose {
		jobs := st.Load().PipelineJobs
		// New discoveries are appended, so the tail holds this run's jobs.
		if result.NewJobsCount < len(jobs) {
			jobs = jobs[len(jobs)-result.NewJobsCount:]
		}
		observability.NewPrinter(os.Stdout).PrintDiscovery(jobs)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Found %d new jobs\n", result.NewJobsCount)
	return nil
}
