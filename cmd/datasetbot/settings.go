package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/config"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/log"
)

// loadConfig builds the configuration for cmd: defaults, then the config
// file, then the environment, then any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return loadConfigWith(cmd, os.LookupEnv)
}

func loadConfigWith(cmd *cobra.Command, lookup func(string) (string, bool)) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path, lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// applyFlags overlays the flags the user changed onto cfg. Flags a command
// does not define are skipped.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	changed := func(name string) bool {
		return err == nil && flags.Lookup(name) != nil && flags.Changed(name)
	}

	if changed("staging-dir") {
		cfg.StagingDir, err = flags.GetString("staging-dir")
	}
	if changed("archive-dir") {
		cfg.ArchiveDir, err = flags.GetString("archive-dir")
	}
	if changed("max-part-size") {
		cfg.MaxPartSize, err = flags.GetInt64("max-part-size")
	}
	if changed("port") {
		cfg.Port, err = flags.GetInt("port")
	}
	if changed("timeout") {
		cfg.CatalogTimeout, err = flags.GetDuration("timeout")
	}
	if changed("poll-timeout") {
		cfg.PollTimeout, err = flags.GetDuration("poll-timeout")
	}
	if changed("limit") {
		cfg.MaxResults, err = flags.GetInt("limit")
	}
	if changed("proxy") {
		cfg.ProxyAddress, err = flags.GetString("proxy")
	}
	if changed("log-format") {
		cfg.LogFormat, err = flags.GetString("log-format")
	}
	return err
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// newLogger creates the secure logger for cmd's error stream.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return log.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
}
