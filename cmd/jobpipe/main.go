// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the jobpipe CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jrhoades1/job-application-system/internal/logger"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is the merged configuration, loaded before any subcommand runs.
var cfg types.PipelineConfig

// log is the process-wide structured logger.
var log *zap.Logger

// rootCmd is the base command for the jobpipe CLI.
var rootCmd = &cobra.Command{
	Use:   "jobpipe",
	Short: "Personal job application pipeline",
	Long: `jobpipe turns forwarded job-alert emails into a ranked, reviewable list
of applications. Each pipeline stage is a subcommand: fetch pulls alert
emails over IMAP, parse extracts job leads, source finds and scrapes the
postings, and score matches them against your achievements inventory and
builds the review queue.

run executes all four stages in order, optionally on a cron schedule.
review triages the queue interactively, verify audits the staging
artifacts and tracker, and migrate pushes applications to Supabase.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c

		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		debug, _ := cmd.Flags().GetBool("debug")
		l, err := logger.New(jsonLogs, debug)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./jobpipe.yaml or ~/.config/jobpipe/config.yaml)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "emit logs as JSON instead of console output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("jobpipe")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "jobpipe"))
		}
	}

	viper.SetEnvPrefix("JOBPIPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges file and environment settings over the documented
// defaults. Durations are accepted in Go syntax ("2s", "90m").
func loadConfig() (types.PipelineConfig, error) {
	c := types.DefaultConfig()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: &c,
	})
	if err != nil {
		return c, err
	}
	if err := dec.Decode(viper.AllSettings()); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	if err := validateTemplates(c); err != nil {
		return c, err
	}
	return c, nil
}

// validateTemplates rejects sender templates with patterns that will not
// compile, so a config typo fails the command instead of silently
// matching nothing at parse time.
func validateTemplates(c types.PipelineConfig) error {
	for domain, tmpl := range c.SenderTemplates {
		for _, pat := range tmpl.SubjectPatterns {
			if _, err := regexp.Compile("(?i)" + pat); err != nil {
				return fmt.Errorf("sender_templates.%s: bad subject pattern %q: %w", domain, pat, err)
			}
		}
		if tmpl.MultiJobIndicator != "" {
			if _, err := regexp.Compile("(?i)" + tmpl.MultiJobIndicator); err != nil {
				return fmt.Errorf("sender_templates.%s: bad multi-job indicator: %w", domain, err)
			}
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
