// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrhoades1/job-application-system/internal/discover"
	"github.com/jrhoades1/job-application-system/internal/scrape"
	"github.com/jrhoades1/job-application-system/internal/scrape/browser"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Find and scrape the posting behind each lead",
	Long: `Source discovers the career page for every parsed job lead, scrapes
the posting text, and validates that the scraped page matches the lead.
Leads whose posting cannot be found, scraped, or validated become
unresolved artifacts; they are retried with --retry. Requests are
throttled per host to stay polite.`,
	RunE: runSource,
}

func init() {
	sourceCmd.Flags().Int("limit", 0, "maximum leads per batch (0 = no limit)")
	sourceCmd.Flags().Bool("retry", false, "reprocess leads whose previous run was unresolved")
	sourceCmd.Flags().Duration("search-delay", 0, "override the pause before each career-page search")
	sourceCmd.Flags().Duration("scrape-delay", 0, "override the delay between discovery and scrape")
	sourceCmd.Flags().Float64("rps", 0, "override the per-host requests-per-second cap")

	rootCmd.AddCommand(sourceCmd)
}

func runSource(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	retry, _ := cmd.Flags().GetBool("retry")

	if d, _ := cmd.Flags().GetDuration("search-delay"); d > 0 {
		cfg.Throttle.SearchDelay = d
	}
	if d, _ := cmd.Flags().GetDuration("scrape-delay"); d > 0 {
		cfg.Throttle.ScrapeDelay = d
	}
	if rps, _ := cmd.Flags().GetFloat64("rps"); rps > 0 {
		cfg.Throttle.RequestsPerSecond = rps
	}

	return sourceStage(cmd.Context(), limit, retry)
}

func sourceStage(ctx context.Context, limit int, retry bool) error {
	parsed, err := stagingStore(stageParsed)
	if err != nil {
		return err
	}
	sourced, err := stagingStore(stageSourced)
	if err != nil {
		return err
	}

	timeout := cfg.Scrape.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	finder := &discover.Finder{
		Client:          client,
		Limiter:         discover.NewHostLimiter(cfg.Throttle.RequestsPerSecond, 1),
		UserAgent:       cfg.Scrape.UserAgent,
		ExcludedDomains: cfg.Scrape.ExcludedDomains,
		SearchDelay:     cfg.Throttle.SearchDelay,
	}
	scraper := &scrape.Scraper{
		Client:    client,
		UserAgent: cfg.Scrape.UserAgent,
	}
	if cfg.Scrape.BrowserFallback {
		scraper.Browser = &browser.Chrome{UserAgent: cfg.Scrape.UserAgent}
	}

	sourcer := &scrape.Sourcer{
		Parsed:          parsed,
		Sourced:         sourced,
		Finder:          finder,
		Scraper:         scraper,
		ScrapeDelay:     cfg.Throttle.ScrapeDelay,
		Limit:           limit,
		RetryUnresolved: retry,
	}

	result, err := sourcer.SourceBatch(ctx, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("sourced %d of %d lead(s), %d unresolved, %d skipped, %d failed\n",
		result.Sourced, result.Total, result.Unresolved, result.Skipped, result.Failed)
	if result.HasFailures() {
		return fmt.Errorf("%d lead(s) failed to source", result.Failed)
	}
	return nil
}
