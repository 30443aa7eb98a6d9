// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrhoades1/job-application-system/internal/apps"
	"github.com/jrhoades1/job-application-system/internal/rank"
	"github.com/jrhoades1/job-application-system/internal/review"
	"github.com/jrhoades1/job-application-system/internal/score"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score, rank, and queue sourced postings for review",
	Long: `Score matches every sourced posting against the achievements inventory,
applies the auto-skip rules, and ranks the survivors by tier. Ranked leads
get an application folder stub with metadata and the job description; the
sqlite index and the spreadsheet tracker are updated under a file lock.
The run ends with a fresh review queue (JSON plus a markdown summary).
Already-scored leads reuse their stored score unless --rescore is set.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().Bool("rescore", false, "recompute leads that already have a scored artifact")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	rescore, _ := cmd.Flags().GetBool("rescore")
	return scoreStage(rescore)
}

func scoreStage(rescore bool) error {
	sourced, err := stagingStore(stageSourced)
	if err != nil {
		return err
	}
	scored, err := stagingStore(stageScored)
	if err != nil {
		return err
	}

	achievements, err := score.LoadAchievements(cfg.Paths.AchievementsPath)
	if err != nil {
		return err
	}
	if achievements.Total() == 0 {
		fmt.Printf("  warning: no achievements found at %s, everything will score long_shot\n",
			cfg.Paths.AchievementsPath)
	}

	batchID := score.NewBatchID(time.Now())
	scorer := &score.Scorer{
		Sourced:      sourced,
		Scored:       scored,
		Achievements: achievements,
		AutoSkip:     cfg.AutoSkip,
		Preferences:  cfg.Preferences,
		Rescore:      rescore,
		BatchID:      batchID,
	}

	outcome, err := scorer.ScoreBatch(os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("scored %d of %d lead(s), %d auto-skipped, %d unresolved, %d reused, %d failed\n",
		outcome.Result.Scored, outcome.Result.Total, outcome.Result.AutoSkipped,
		outcome.Result.Unresolved, outcome.Result.Skipped, outcome.Result.Failed)

	ranked := rank.RankJobs(outcome.Leads)

	var annotated []types.ScoredLead
	err = apps.WithLock(lockPath(), func() error {
		index, err := apps.OpenIndex(indexPath())
		if err != nil {
			return err
		}
		defer index.Close()

		creator := &apps.Creator{
			ApplicationsDir: cfg.Paths.ApplicationsDir,
			Index:           index,
		}
		var created []apps.Created
		annotated, created, err = creator.CreateStubs(ranked)
		if err != nil {
			return err
		}

		tracker := &apps.Tracker{Path: cfg.Paths.TrackerPath}
		added, err := tracker.Append(created)
		if err != nil {
			return err
		}
		fmt.Printf("  created %d application folder(s), %d tracker row(s)\n", len(created), added)
		return nil
	})
	if err != nil {
		return err
	}

	queue := review.BuildQueue(batchID, time.Now(), annotated, outcome.AutoSkipped, outcome.Unresolved)
	if err := review.Save(cfg.Paths.PipelineDir, queue); err != nil {
		return err
	}
	fmt.Printf("review queue ready: %d lead(s) pending in %s\n", len(queue.Leads), cfg.Paths.PipelineDir)

	if outcome.Result.HasFailures() {
		return fmt.Errorf("%d lead(s) failed to score", outcome.Result.Failed)
	}
	return nil
}
