package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/catalog"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/log"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/report"
)

// SearchPipeline turns a query into a digest: fan out to every registered
// catalog, then merge the lists in registry order and truncate.
type SearchPipeline struct {
	registry   *catalog.Registry
	fanout     *Fanout
	perCatalog int
	maxResults int
	logger     *slog.Logger
}

// Option configures a SearchPipeline.
type Option func(*SearchPipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *SearchPipeline) {
		p.logger = logger
	}
}

// WithFanout replaces the default Fanout.
func WithFanout(f *Fanout) Option {
	return func(p *SearchPipeline) {
		p.fanout = f
	}
}

// WithResultsPerCatalog sets the limit passed to every catalog.
func WithResultsPerCatalog(n int) Option {
	return func(p *SearchPipeline) {
		if n > 0 {
			p.perCatalog = n
		}
	}
}

// WithMaxResults sets the size of the merged digest.
func WithMaxResults(n int) Option {
	return func(p *SearchPipeline) {
		if n > 0 {
			p.maxResults = n
		}
	}
}

// NewSearchPipeline creates a pipeline over registry.
func NewSearchPipeline(registry *catalog.Registry, opts ...Option) *SearchPipeline {
	p := &SearchPipeline{
		registry:   registry,
		perCatalog: catalog.DefaultLimit,
		maxResults: model.DefaultMaxResults,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = log.Discard()
	}
	if p.fanout == nil {
		p.fanout = NewFanout(WithFanoutLogger(p.logger))
	}

	return p
}

// Search runs query against every catalog and returns the merged digest.
func (p *SearchPipeline) Search(ctx context.Context, query string) *model.Digest {
	start := time.Now()

	lists := p.fanout.Search(ctx, p.registry.Clients(), query, p.perCatalog)
	digest := report.AggregateN(query, p.maxResults, lists...)

	counts := digest.CountByPlatform()
	byPlatform := make([]any, 0, len(counts))
	for _, platform := range model.AllPlatforms() {
		if n := counts[platform]; n > 0 {
			byPlatform = append(byPlatform, slog.Int(platform.String(), n))
		}
	}

	p.logger.InfoContext(ctx, "search complete",
		"query", query,
		"available", digest.Available,
		"returned", len(digest.Results),
		"truncated", digest.Truncated(),
		slog.Group("by_platform", byPlatform...),
		"elapsed", time.Since(start),
	)
	return digest
}

// Catalogs returns the names of the catalogs searched, in merge order.
func (p *SearchPipeline) Catalogs() []string {
	return p.registry.Names()
}
