// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jrhoades1/job-application-system/internal/apps"
	"github.com/jrhoades1/job-application-system/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Triage the review queue interactively",
	Long: `Review walks through the pending leads of the latest review queue, best
matches first. For each lead choose apply (moves the application to
to_apply), skip, or defer; quit leaves the rest pending for next time.
Decisions update the application index and the saved queue.`,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	queue, err := review.Load(cfg.Paths.PipelineDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no review queue found in %s, run the score stage first", cfg.Paths.PipelineDir)
		}
		return err
	}

	index, err := apps.OpenIndex(indexPath())
	if err != nil {
		return err
	}
	defer index.Close()

	triage := &review.Triage{Index: index}
	result, err := triage.Run(&queue, os.Stdout)
	if err != nil {
		return err
	}

	if err := review.Save(cfg.Paths.PipelineDir, queue); err != nil {
		return err
	}
	fmt.Printf("triage done: %d to apply, %d skipped, %d deferred\n",
		result.Applied, result.Skipped, result.Deferred)
	return nil
}
