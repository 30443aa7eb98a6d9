// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jrhoades1/job-application-system/internal/apps"
	"github.com/jrhoades1/job-application-system/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Audit staging artifacts, index, and tracker for consistency",
	Long: `Verify validates every staging artifact against its stage schema,
checks that index entries have valid statuses and existing application
folders, and cross-references the index against the spreadsheet tracker
in both directions. Exits non-zero when problems are found.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	raw, err := stagingStore(stageRaw)
	if err != nil {
		return err
	}
	parsed, err := stagingStore(stageParsed)
	if err != nil {
		return err
	}
	sourced, err := stagingStore(stageSourced)
	if err != nil {
		return err
	}
	scored, err := stagingStore(stageScored)
	if err != nil {
		return err
	}

	verifier := &verify.Verifier{
		Raw:             raw,
		Parsed:          parsed,
		Sourced:         sourced,
		Scored:          scored,
		Tracker:         &apps.Tracker{Path: cfg.Paths.TrackerPath},
		ApplicationsDir: cfg.Paths.ApplicationsDir,
	}

	// The index is only audited once the score stage has created it.
	if _, err := os.Stat(indexPath()); err == nil {
		index, err := apps.OpenIndex(indexPath())
		if err != nil {
			return err
		}
		defer index.Close()
		verifier.Index = index
	}

	report, err := verifier.Run(os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("checked %d artifact(s), %d index entr(ies), %d tracker row(s)\n",
		report.ArtifactsChecked, report.IndexEntries, report.TrackerRows)
	if !report.OK() {
		for _, p := range report.Problems {
			fmt.Printf("  problem: %s\n", p)
		}
		return fmt.Errorf("%d problem(s) found", len(report.Problems))
	}
	fmt.Println("all checks passed")
	return nil
}
