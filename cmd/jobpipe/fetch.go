// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jrhoades1/job-application-system/internal/mailbox"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch job-alert emails over IMAP",
	Long: `Fetch connects to the configured IMAP mailbox, pulls unprocessed
job-alert emails, and stages each one as a raw JSON artifact. Duplicate
content is detected by fingerprint; saved messages are copied to the
processed label. Each UID is staged at most once.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int("limit", 0, "maximum emails per batch (default 50)")
	fetchCmd.Flags().Bool("dry-run", false, "report intended actions without staging or labeling")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	return fetchStage(cmd.Context(), limit, dryRun)
}

func fetchStage(ctx context.Context, limit int, dryRun bool) error {
	if cfg.Email.Address == "" {
		return fmt.Errorf("email.address is not configured")
	}

	password, err := mailbox.AppPassword(cfg.Email, secretsDir)
	if err != nil {
		return err
	}

	box, err := mailbox.Dial(ctx, cfg.Email.IMAPHost, cfg.Email.IMAPPort, cfg.Email.Mailbox, cfg.Email.Address, password)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.Email.IMAPHost, err)
	}
	defer box.Close()

	raw, err := stagingStore(stageRaw)
	if err != nil {
		return err
	}
	fingerprints, err := mailbox.LoadFingerprints(fingerprintsPath())
	if err != nil {
		return err
	}

	fetcher := &mailbox.Fetcher{
		Mailbox:      box,
		Raw:          raw,
		Fingerprints: fingerprints,
		Config:       cfg.Email,
		Limit:        limit,
		DryRun:       dryRun,
	}

	result, err := fetcher.FetchBatch(ctx, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("fetched %d, saved %d, duplicates %d, skipped %d, failed %d\n",
		result.Fetched, result.Saved, result.Duplicates, result.Skipped, result.Failed)
	if result.HasFailures() {
		return fmt.Errorf("%d email(s) failed to stage", result.Failed)
	}
	return nil
}
