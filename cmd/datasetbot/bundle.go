package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/archive"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/config"
)

// NewBundleCmd creates the bundle command.
func NewBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle [dir]",
		Short: "Bundle a staging directory into a ZIP archive",
		Long: `Bundle builds the archive the bot sends for "MLparset" and writes it to a
local file. ZIP files and subdirectories are left out. Archives larger than
--max-part-size are written as <output>.part1, <output>.part2, ...

The directory defaults to the configured staging directory.

Examples:
  # Bundle ./temp into ml_datasets_bundle.zip
  datasetbot bundle

  # Bundle another directory
  datasetbot bundle /data/out -o out.zip`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBundleCmd,
	}

	cmd.Flags().StringP("output", "o", archive.DefaultUploadName,
		"Output file path (creates directories if needed)")
	cmd.Flags().Int64("max-part-size", config.DefaultMaxPartSize,
		"Largest archive written in one piece, in bytes")
	cmd.Flags().String("archive-dir", "",
		"Directory for temporary files (default: system temp directory)")

	return cmd
}

func runBundleCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	dir := cfg.StagingDir
	if len(args) == 1 {
		dir = args[0]
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runBundle(ctx, newBuilder(cfg, newLogger(cmd, cfg)), dir, output, cmd.OutOrStdout())
}

// runBundle archives dir and copies the result to output.
func runBundle(ctx context.Context, builder *archive.Builder, dir, output string, out io.Writer) error {
	plan, err := builder.Plan(dir)
	if err != nil {
		return err
	}

	if parent := filepath.Dir(output); parent != "" && parent != "." {
		if err := os.MkdirAll(parent, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var written []string
	summary, err := builder.Bundle(ctx, plan, func(_ context.Context, s *archive.Summary) error {
		for _, a := range s.Artifacts {
			dst := output
			if a.Part > 0 {
				dst = fmt.Sprintf("%s.part%d", output, a.Part)
			}
			if err := copyFile(a.Path, dst); err != nil {
				return err
			}
			written = append(written, dst)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, skipped := range summary.Skipped {
		fmt.Fprintf(out, "Skipped %s: %v\n", skipped.Name, skipped.Err)
	}
	if summary.Split() {
		fmt.Fprintf(out, "Bundled %d files (%d bytes) in %d parts\n", summary.FileCount(), summary.ArchiveSize, len(summary.Artifacts))
	} else {
		fmt.Fprintf(out, "Bundled %d files (%d bytes)\n", summary.FileCount(), summary.ArchiveSize)
	}
	for _, path := range written {
		fmt.Fprintf(out, "  %s\n", path)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // path was created by the archive builder
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer in.Close()

	outFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if cerr := outFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", dst, cerr)
		}
	}()

	if _, err := io.Copy(outFile, in); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
