package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/archive"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/catalog"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/config"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/dispatch"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/health"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/pipeline"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/telegram"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		Long: `Serve connects to Telegram with long polling and answers messages until
interrupted. A liveness endpoint is served on $PORT.

The bot token is read from TELEGRAM_BOT_TOKEN or the bot_token key of the
configuration file. Catalog credentials are optional:
  KAGGLE_USERNAME, KAGGLE_KEY   enable Kaggle search
  HF_TOKEN                      authenticates Hugging Face requests
  GITHUB_TOKEN                  raises the GitHub search rate limit

Examples:
  # Serve with the staging directory ./temp
  TELEGRAM_BOT_TOKEN=123:abc datasetbot serve

  # Serve another directory and log JSON
  datasetbot serve --staging-dir /data/out --log-format json`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("staging-dir", "d", config.DefaultStagingDir,
		"Directory whose files are bundled on request")
	cmd.Flags().String("archive-dir", "",
		"Directory for temporary archives (default: system temp directory)")
	cmd.Flags().Int64("max-part-size", config.DefaultMaxPartSize,
		"Largest archive sent in one piece, in bytes")
	cmd.Flags().IntP("port", "p", config.DefaultPort,
		"Liveness listener port")
	cmd.Flags().DurationP("timeout", "t", config.DefaultCatalogTimeout,
		"Timeout for each catalog HTTP request")
	cmd.Flags().Duration("poll-timeout", config.DefaultPollTimeout,
		"Telegram long polling timeout")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy for catalog requests (host:port)")
	cmd.Flags().String("log-format", config.DefaultLogFormat,
		"Log format: text or json")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd, cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServe(ctx, cfg, logger)
}

// runServe wires the bot and blocks until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.EnsureStagingDir(); err != nil {
		return err
	}
	if err := telegram.SetLibraryLogger(logger); err != nil {
		return err
	}

	router, err := newRouter(ctx, cfg, logger)
	if err != nil {
		return err
	}

	bot, err := telegram.New(ctx, cfg.BotToken, router,
		telegram.WithLogger(logger),
		telegram.WithHTTPClient(&http.Client{Timeout: cfg.TransportTimeout}),
		telegram.WithPollTimeout(cfg.PollTimeout),
	)
	if err != nil {
		return err
	}

	logger.Info("starting bot",
		"username", bot.Username(),
		"staging_dir", cfg.StagingDir,
		"health_addr", cfg.HealthAddr(),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The bot keeps running without the liveness endpoint.
		if err := health.NewServer(cfg.HealthAddr(), health.WithLogger(logger)).Run(ctx); err != nil {
			logger.Error("health server failed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		return bot.Run(ctx)
	})

	err = g.Wait()
	logger.Info("bot stopped")
	return err
}

// newRouter builds the catalog registry, search pipeline and archive
// builder described by cfg.
func newRouter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dispatch.Router, error) {
	registry, err := catalog.NewDefaultRegistry(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog clients: %w", err)
	}

	return dispatch.NewRouter(
		newSearchPipeline(registry, cfg, logger),
		newBuilder(cfg, logger),
		cfg.StagingDir,
		dispatch.WithLogger(logger),
	), nil
}

func newSearchPipeline(registry *catalog.Registry, cfg *config.Config, logger *slog.Logger) *pipeline.SearchPipeline {
	p := pipeline.NewSearchPipeline(registry,
		pipeline.WithLogger(logger),
		pipeline.WithFanout(pipeline.NewFanout(
			pipeline.WithFanoutLogger(logger),
			pipeline.WithCallTimeout(cfg.CatalogCallTimeout()),
		)),
		pipeline.WithResultsPerCatalog(cfg.ResultsPerCatalog),
		pipeline.WithMaxResults(cfg.MaxResults),
	)
	logger.Info("search pipeline ready", "catalogs", p.Catalogs())
	return p
}

func newBuilder(cfg *config.Config, logger *slog.Logger) *archive.Builder {
	return archive.NewBuilder(
		archive.WithTempDir(cfg.ArchiveDir),
		archive.WithMaxPartSize(cfg.MaxPartSize),
		archive.WithLogger(logger),
	)
}
