package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/text/cases"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/log"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
)

// DefaultLimit is the result limit used when a caller passes zero or less.
const DefaultLimit = 5

// Client searches one dataset catalog.
//
// Search never fails: every error is logged and yields an empty slice.
// Implementations must be safe for concurrent use.
type Client interface {
	// Name returns the backend name used in logs and registry lookups.
	Name() string
	// Platform returns the platform tag stamped on every result.
	Platform() model.Platform
	// Search returns at most limit results for query in backend order.
	Search(ctx context.Context, query string, limit int) []model.SearchResult
}

// Options holds the settings shared by every client constructor.
type Options struct {
	// BaseURL overrides the backend API host. Tests point it at httptest servers.
	BaseURL string
	// HTTPClient is the client used for requests. Nil means a NewHTTPClient default.
	HTTPClient *http.Client
	// Limiter throttles requests. Nil means the backend's default limiter.
	Limiter *RateLimiter
	// Logger receives failure reports. Nil discards them.
	Logger *slog.Logger
}

func (o Options) withDefaults(baseURL string, limiter func() *RateLimiter) (Options, error) {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.HTTPClient == nil {
		client, err := NewHTTPClient(HTTPOptions{})
		if err != nil {
			return o, err
		}
		o.HTTPClient = client
	}
	if o.Limiter == nil {
		o.Limiter = limiter()
	}
	if o.Logger == nil {
		o.Logger = log.Discard()
	}
	return o, nil
}

// clampLimit maps a non-positive limit to DefaultLimit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// logFailure reports a failed search and returns the empty result.
func logFailure(ctx context.Context, logger *slog.Logger, backend, query string, err error) []model.SearchResult {
	logger.ErrorContext(ctx, "catalog search failed",
		"backend", backend,
		"query", query,
		"reason", failureReason(err),
		"error", &BackendError{Backend: backend, Op: "search", Err: err},
	)
	return []model.SearchResult{}
}

// Registry is the ordered, immutable set of catalog clients.
// Result order across catalogs follows registration order.
type Registry struct {
	clients []Client
}

// NewRegistry creates a registry holding clients in the given order.
// Names must be unique under Unicode case folding.
func NewRegistry(clients ...Client) (*Registry, error) {
	seen := make(map[string]struct{}, len(clients))
	kept := make([]Client, 0, len(clients))
	for i, c := range clients {
		if c == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilClient, i)
		}
		key := foldName(c.Name())
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateClient, c.Name())
		}
		seen[key] = struct{}{}
		kept = append(kept, c)
	}
	return &Registry{clients: kept}, nil
}

// Clients returns the clients in registration order.
// The returned slice is a copy.
func (r *Registry) Clients() []Client {
	out := make([]Client, len(r.clients))
	copy(out, r.clients)
	return out
}

// Names returns the client names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.clients))
	for i, c := range r.clients {
		names[i] = c.Name()
	}
	return names
}

// Lookup finds a client by name, ignoring case.
func (r *Registry) Lookup(name string) (Client, bool) {
	key := foldName(name)
	for _, c := range r.clients {
		if foldName(c.Name()) == key {
			return c, true
		}
	}
	return nil, false
}

// Select returns a registry holding only the named clients, kept in
// registration order. Names are matched ignoring case.
func (r *Registry) Select(names ...string) (*Registry, error) {
	want := make(map[string]struct{}, len(names))
	for _, name := range names {
		c, ok := r.Lookup(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownClient, name, strings.Join(r.Names(), ", "))
		}
		want[foldName(c.Name())] = struct{}{}
	}

	kept := make([]Client, 0, len(want))
	for _, c := range r.clients {
		if _, ok := want[foldName(c.Name())]; ok {
			kept = append(kept, c)
		}
	}
	return &Registry{clients: kept}, nil
}

// foldName case-folds a client name. A Caser is stateful, so each call gets its own.
func foldName(name string) string {
	return cases.Fold().String(name)
}
