package catalog

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
)

const (
	// HuggingFaceBaseURL is the public Hugging Face Hub host.
	HuggingFaceBaseURL = "https://huggingface.co"

	huggingFaceDatasetsPath = "/api/datasets"
)

// HuggingFace searches Hugging Face Hub datasets ordered by downloads.
// The token is optional; without it the public API is used anonymously.
type HuggingFace struct {
	endpoint *jsonEndpoint
	logger   *slog.Logger
}

// NewHuggingFace creates a Hugging Face client.
func NewHuggingFace(token string, opts Options) (*HuggingFace, error) {
	opts, err := opts.withDefaults(HuggingFaceBaseURL, func() *RateLimiter { return NewRateLimiter(5, 5) })
	if err != nil {
		return nil, err
	}
	endpoint, err := newJSONEndpoint(opts.BaseURL, opts.HTTPClient, opts.Limiter)
	if err != nil {
		return nil, err
	}
	endpoint.authorize = bearerAuth(strings.TrimSpace(token))
	return &HuggingFace{endpoint: endpoint, logger: opts.Logger}, nil
}

// Name implements Client.
func (h *HuggingFace) Name() string { return "HuggingFace" }

// Platform implements Client.
func (h *HuggingFace) Platform() model.Platform { return model.PlatformHuggingFace }

// Search implements Client.
func (h *HuggingFace) Search(ctx context.Context, query string, limit int) []model.SearchResult {
	results, err := h.search(ctx, query, clampLimit(limit))
	if err != nil {
		return logFailure(ctx, h.logger, h.Name(), query, err)
	}
	return results
}

func (h *HuggingFace) search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", "downloads")
	q.Set("direction", "-1")

	doc, err := h.endpoint.get(ctx, huggingFaceDatasetsPath, q)
	if err != nil {
		return nil, err
	}
	if !doc.IsArray() {
		return nil, ErrMalformedResponse
	}

	results := make([]model.SearchResult, 0, limit)
	doc.ForEach(func(_, item gjson.Result) bool {
		id := strings.TrimSpace(item.Get("id").String())
		if id == "" {
			return true
		}
		results = append(results, model.NewSearchResult(
			model.PlatformHuggingFace,
			id,
			HuggingFaceBaseURL+"/datasets/"+id,
		))
		return len(results) < limit
	})
	return results, nil
}
