package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/catalog"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/config"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/report"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the dataset catalogs from the command line",
		Long: `Search runs the same catalog search the bot runs for a chat message and
prints the merged result list.

Examples:
  # Plain text output
  datasetbot search iris

  # Multi-word query as JSON
  datasetbot search --json "stock prices"

  # The message the bot would send
  datasetbot search --markdown titanic

  # Only Hugging Face and GitHub, also saved to a file
  datasetbot search --catalog huggingface,github --output iris.txt iris`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearchCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the Telegram Markdown message (mutually exclusive with --json)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultCatalogTimeout,
		"Timeout for each catalog HTTP request")
	cmd.Flags().IntP("limit", "l", config.DefaultMaxResults,
		"Maximum number of results")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy for catalog requests (host:port)")
	cmd.Flags().StringSliceP("catalog", "C", nil,
		"Search only these catalogs (kaggle, huggingface, github); default all")
	cmd.Flags().StringP("output", "o", "",
		"Also write the results to this file")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// searchRequest is one command line search.
type searchRequest struct {
	query    string
	format   outputFormat
	catalogs []string
	output   string
}

// outputFormat selects the search output writer.
type outputFormat int

const (
	formatPlain outputFormat = iota
	formatJSON
	formatMarkdown
)

func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	format := formatPlain
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		format = formatJSON
	}
	if asMarkdown, _ := cmd.Flags().GetBool("markdown"); asMarkdown {
		format = formatMarkdown
	}

	catalogs, err := cmd.Flags().GetStringSlice("catalog")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := searchRequest{
		query:    strings.TrimSpace(strings.Join(args, " ")),
		format:   format,
		catalogs: catalogs,
		output:   output,
	}
	return runSearch(ctx, cfg, newLogger(cmd, cfg), req, cmd.OutOrStdout())
}

// runSearch searches the selected catalogs and writes the digest to out,
// and to req.output when set.
func runSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger, req searchRequest, out io.Writer) (err error) {
	if req.query == "" {
		return fmt.Errorf("empty search query")
	}

	registry, err := catalog.NewDefaultRegistry(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog clients: %w", err)
	}
	if len(req.catalogs) > 0 {
		if registry, err = registry.Select(req.catalogs...); err != nil {
			return err
		}
	}

	digest := newSearchPipeline(registry, cfg, logger).Search(ctx, req.query)

	w := newDigestWriter(req.format, out)
	if req.output != "" {
		f, openErr := os.OpenFile(req.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is chosen by the user
		if openErr != nil {
			return fmt.Errorf("failed to create output file: %w", openErr)
		}
		defer func() {
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("failed to close output file: %w", closeErr)
			}
		}()
		w = report.NewMultiWriter(w, newDigestWriter(req.format, f))
	}

	if _, err := w.Write(digest); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func newDigestWriter(format outputFormat, out io.Writer) report.Writer {
	switch format {
	case formatJSON:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case formatMarkdown:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out)
	}
}
