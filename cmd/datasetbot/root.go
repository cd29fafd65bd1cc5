package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for datasetbot.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasetbot",
		Short: "Telegram bot for finding and bundling ML datasets",
		Long: `datasetbot answers Telegram messages in two ways:

- The exact text "MLparset" returns a ZIP archive of the staging directory.
- Any other text is searched on Kaggle, Hugging Face and GitHub, and the
  top links are returned.

The search and bundle pipelines can also be run locally with the search and
bundle subcommands.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .datasetbot.yaml in current, XDG config or home directory)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewBundleCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
