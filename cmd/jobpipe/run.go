// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: fetch, parse, source, score",
	Long: `Run executes every pipeline stage in order and ends with a fresh
review queue. With --schedule the pipeline instead runs repeatedly on the
given cron expression ("0 8 * * *" for daily at 08:00) until interrupted;
a failed run is logged and the schedule keeps going.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Int("limit", 0, "maximum emails and leads per batch (0 = stage defaults)")
	runCmd.Flags().Bool("retry", false, "reprocess unresolved leads in the source stage")
	runCmd.Flags().Bool("rescore", false, "recompute already-scored leads")
	runCmd.Flags().String("schedule", "", "cron expression; keep running the pipeline on this schedule")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	retry, _ := cmd.Flags().GetBool("retry")
	rescore, _ := cmd.Flags().GetBool("rescore")
	schedule, _ := cmd.Flags().GetString("schedule")

	ctx := cmd.Context()
	if schedule == "" {
		return runPipeline(ctx, limit, retry, rescore)
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := runPipeline(ctx, limit, retry, rescore); err != nil {
			log.Error("pipeline run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	fmt.Printf("pipeline scheduled on %q, press Ctrl-C to stop\n", schedule)
	c.Run()
	return nil
}

func runPipeline(ctx context.Context, limit int, retry, rescore bool) error {
	fmt.Println("==> fetch")
	if err := fetchStage(ctx, limit, false); err != nil {
		return fmt.Errorf("fetch stage: %w", err)
	}
	fmt.Println("==> parse")
	if err := parseStage(false); err != nil {
		return fmt.Errorf("parse stage: %w", err)
	}
	fmt.Println("==> source")
	if err := sourceStage(ctx, limit, retry); err != nil {
		return fmt.Errorf("source stage: %w", err)
	}
	fmt.Println("==> score")
	if err := scoreStage(rescore); err != nil {
		return fmt.Errorf("score stage: %w", err)
	}
	return nil
}
