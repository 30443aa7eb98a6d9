// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jrhoades1/job-application-system/internal/supabase"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Push local applications to Supabase",
	Long: `Migrate copies every local application folder into the remote
applications table, translating local statuses to their remote names, and
inserts a match_scores row for each application that carries a score.
Per-folder failures are reported but do not stop the run.

The Postgres DSN comes from --dsn, the supabase.dsn config key, or the
JOBPIPE_SUPABASE_DSN environment variable.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().String("dsn", "", "Postgres connection string for the Supabase project")
	migrateCmd.Flags().String("user-id", "", "owning user id stamped on migrated rows")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		dsn = cfg.Supabase.DSN
	}
	if dsn == "" {
		// Env-only values bypass the config file merge.
		dsn = viper.GetString("supabase.dsn")
	}
	if dsn == "" {
		return fmt.Errorf("no Supabase DSN configured")
	}
	userID, _ := cmd.Flags().GetString("user-id")
	if userID == "" {
		userID = cfg.Supabase.UserID
	}
	if userID == "" {
		userID = viper.GetString("supabase.user_id")
	}
	if userID == "" {
		return fmt.Errorf("no Supabase user id configured")
	}

	ctx := cmd.Context()
	pool, err := supabase.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator := &supabase.Migrator{
		DB:              pool,
		UserID:          userID,
		ApplicationsDir: cfg.Paths.ApplicationsDir,
	}

	result, err := migrator.Migrate(ctx, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("migrated %d application(s), %d with scores, %d failed\n",
		result.Migrated, result.Scored, result.Failed)
	if result.HasFailures() {
		return fmt.Errorf("%d application(s) failed to migrate", result.Failed)
	}
	return nil
}
