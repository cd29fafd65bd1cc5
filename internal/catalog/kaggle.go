package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
)

const (
	// KaggleBaseURL is the public Kaggle host.
	KaggleBaseURL = "https://www.kaggle.com"

	kaggleListPath = "/api/v1/datasets/list"

	// kaggleProbeTimeout bounds the availability probe made at construction.
	kaggleProbeTimeout = 5 * time.Second
)

var errKaggleNoCredentials = errors.New("KAGGLE_USERNAME and KAGGLE_KEY are not set")

// KaggleCredentials holds the Kaggle API username and key.
type KaggleCredentials struct {
	Username string
	Key      string
}

func (c KaggleCredentials) complete() bool {
	return strings.TrimSpace(c.Username) != "" && strings.TrimSpace(c.Key) != ""
}

// Kaggle searches Kaggle datasets ordered by votes.
//
// Availability is decided once, at construction: without credentials, or when
// the probe request is rejected, the client stays unavailable for its whole
// lifetime and Search returns no results without touching the network.
type Kaggle struct {
	endpoint  *jsonEndpoint
	logger    *slog.Logger
	available bool
}

// NewKaggle creates a Kaggle client and runs its availability self-check.
// An unusable backend is not an error; only an invalid BaseURL is.
func NewKaggle(ctx context.Context, creds KaggleCredentials, opts Options) (*Kaggle, error) {
	opts, err := opts.withDefaults(KaggleBaseURL, func() *RateLimiter { return NewRateLimiter(1, 3) })
	if err != nil {
		return nil, err
	}
	endpoint, err := newJSONEndpoint(opts.BaseURL, opts.HTTPClient, opts.Limiter)
	if err != nil {
		return nil, err
	}

	k := &Kaggle{endpoint: endpoint, logger: opts.Logger}

	if !creds.complete() {
		k.logger.Warn("kaggle catalog disabled", "error", errKaggleNoCredentials)
		return k, nil
	}
	endpoint.authorize = basicAuth(creds.Username, creds.Key)

	if err := k.probe(ctx); err != nil {
		k.logger.Error("kaggle catalog disabled", "error", &BackendError{Backend: k.Name(), Op: "authenticate", Err: err})
		return k, nil
	}

	k.available = true
	k.logger.Info("kaggle catalog ready")
	return k, nil
}

// probe makes one cheap authenticated request.
func (k *Kaggle) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, kaggleProbeTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("page", "1")
	q.Set("sortBy", "votes")
	doc, err := k.endpoint.get(ctx, kaggleListPath, q)
	if err != nil {
		return err
	}
	if !doc.IsArray() {
		return ErrMalformedResponse
	}
	return nil
}

// Name implements Client.
func (k *Kaggle) Name() string { return "Kaggle" }

// Platform implements Client.
func (k *Kaggle) Platform() model.Platform { return model.PlatformKaggle }

// Available reports whether the self-check succeeded.
func (k *Kaggle) Available() bool { return k.available }

// Search implements Client.
func (k *Kaggle) Search(ctx context.Context, query string, limit int) []model.SearchResult {
	if !k.Available() {
		k.logger.DebugContext(ctx, "kaggle search skipped", "error", ErrUnavailable)
		return []model.SearchResult{}
	}

	results, err := k.search(ctx, query, clampLimit(limit))
	if err != nil {
		return logFailure(ctx, k.logger, k.Name(), query, err)
	}
	return results
}

func (k *Kaggle) search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("sortBy", "votes")
	q.Set("page", "1")

	doc, err := k.endpoint.get(ctx, kaggleListPath, q)
	if err != nil {
		return nil, err
	}
	if !doc.IsArray() {
		return nil, ErrMalformedResponse
	}

	results := make([]model.SearchResult, 0, limit)
	doc.ForEach(func(_, item gjson.Result) bool {
		if r, ok := kaggleResult(item); ok {
			results = append(results, r)
		}
		return len(results) < limit
	})
	return results, nil
}

// kaggleResult shapes one dataset entry. Title falls back to the ref and the
// URL to https://www.kaggle.com/<ref>; entries with neither ref nor url are dropped.
func kaggleResult(item gjson.Result) (model.SearchResult, bool) {
	ref := strings.TrimSpace(item.Get("ref").String())
	link := strings.TrimSpace(item.Get("url").String())
	title := strings.TrimSpace(item.Get("title").String())

	if ref == "" && link == "" {
		return model.SearchResult{}, false
	}
	if title == "" {
		title = ref
		if title == "" {
			title = link
		}
	}
	if link == "" {
		link = KaggleBaseURL + "/" + ref
	}
	return model.NewSearchResult(model.PlatformKaggle, title, link), true
}
