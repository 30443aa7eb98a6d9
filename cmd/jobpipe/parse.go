// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jrhoades1/job-application-system/internal/parse"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract job leads from staged emails",
	Long: `Parse classifies every staged raw email and extracts its job leads:
company, role, posting URL, and source platform, normalized against the
configured company aliases. Each email yields at least one record; emails
nothing can be extracted from become unresolved records for manual review.
Already-parsed emails are skipped unless --reparse is set.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("reparse", false, "reprocess emails that already have parsed artifacts")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	reparse, _ := cmd.Flags().GetBool("reparse")
	return parseStage(reparse)
}

func parseStage(reparse bool) error {
	raw, err := stagingStore(stageRaw)
	if err != nil {
		return err
	}
	parsed, err := stagingStore(stageParsed)
	if err != nil {
		return err
	}

	parser := &parse.Parser{
		Raw:     raw,
		Parsed:  parsed,
		Config:  cfg,
		Reparse: reparse,
	}

	result, err := parser.ParseBatch(os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("parsed %d email(s): %d single, %d multi, %d recruiter, %d not-job, %d unresolved; %d lead(s) found, %d skipped\n",
		result.Parsed, result.SingleJob, result.MultiJob, result.Recruiter,
		result.NotJob, result.Unresolved, result.LeadsFound, result.Skipped)
	if result.HasFailures() {
		return fmt.Errorf("%d email(s) failed to parse", result.Failed)
	}
	return nil
}
