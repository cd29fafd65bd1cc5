package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
)

const (
	// GitHubAPIBaseURL is the public GitHub REST API host.
	GitHubAPIBaseURL = "https://api.github.com"

	// GitHubWebBaseURL is used to build repository links missing from a response.
	GitHubWebBaseURL = "https://github.com"
)

// GitHub searches repositories tagged as datasets, ordered by stars.
//
// A search that finds nothing under the dataset topics is retried once with
// the machine-learning topic, so one Search makes at most two API calls.
type GitHub struct {
	client  *gh.Client
	limiter *RateLimiter
	logger  *slog.Logger
}

// NewGitHub creates a GitHub client. An empty token searches anonymously.
func NewGitHub(token string, opts Options) (*GitHub, error) {
	// Unauthenticated search allows 10 requests per minute, authenticated 30.
	opts, err := opts.withDefaults(GitHubAPIBaseURL, func() *RateLimiter { return NewRateLimiter(0.5, 5) })
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if token = strings.TrimSpace(token); token != "" {
		authed := *httpClient
		authed.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   transportOrDefault(httpClient.Transport),
		}
		httpClient = &authed
	}

	client := gh.NewClient(httpClient)
	baseURL, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	client.BaseURL = baseURL
	if ua, ok := opts.HTTPClient.Transport.(*userAgentTransport); ok {
		client.UserAgent = ua.userAgent
	}

	return &GitHub{client: client, limiter: opts.Limiter, logger: opts.Logger}, nil
}

func transportOrDefault(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

// Name implements Client.
func (g *GitHub) Name() string { return "GitHub" }

// Platform implements Client.
func (g *GitHub) Platform() model.Platform { return model.PlatformGitHub }

// Search implements Client.
func (g *GitHub) Search(ctx context.Context, query string, limit int) []model.SearchResult {
	results, err := g.search(ctx, query, clampLimit(limit))
	if err != nil {
		return logFailure(ctx, g.logger, g.Name(), query, err)
	}
	return results
}

func (g *GitHub) search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	results, err := g.searchRepositories(ctx, datasetTopicQuery(query), limit)
	if err != nil || len(results) > 0 {
		return results, err
	}

	// The second pass shares ctx's deadline with the first; callers size
	// that deadline for two requests.
	g.logger.DebugContext(ctx, "no dataset-tagged repositories, broadening search", "query", query)
	return g.searchRepositories(ctx, machineLearningTopicQuery(query), limit)
}

// datasetTopicQuery builds the first-pass search query.
func datasetTopicQuery(query string) string {
	return query + " topic:dataset OR topic:data"
}

// machineLearningTopicQuery builds the broadened second-pass search query.
func machineLearningTopicQuery(query string) string {
	return query + " topic:machine-learning"
}

func (g *GitHub) searchRepositories(ctx context.Context, q string, limit int) ([]model.SearchResult, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: limit},
	}
	found, resp, err := g.client.Search.Repositories(ctx, q, opts)
	if resp != nil {
		g.limiter.UpdateFromResponse(resp.Response)
		g.logger.DebugContext(ctx, "github quota",
			"remaining", g.limiter.Remaining(),
			"limit", g.limiter.Limit(),
		)
	}
	if err != nil {
		return nil, g.wrapError(err, "search repositories")
	}

	results := make([]model.SearchResult, 0, limit)
	for _, repo := range found.Repositories {
		if r, ok := githubResult(repo); ok {
			results = append(results, r)
		}
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// githubResult shapes one repository. Title falls back to the short name and
// the URL to https://github.com/<full_name>.
func githubResult(repo *gh.Repository) (model.SearchResult, bool) {
	if repo == nil {
		return model.SearchResult{}, false
	}
	fullName := strings.TrimSpace(repo.GetFullName())
	title := fullName
	if title == "" {
		title = strings.TrimSpace(repo.GetName())
	}
	link := strings.TrimSpace(repo.GetHTMLURL())
	if link == "" && fullName != "" {
		link = GitHubWebBaseURL + "/" + fullName
	}
	if title == "" || link == "" {
		return model.SearchResult{}, false
	}
	return model.NewSearchResult(model.PlatformGitHub, title, link), true
}

// wrapError converts go-github errors to our error types.
func (g *GitHub) wrapError(err error, operation string) error {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &RateLimitError{
			ResetAt:   g.limiter.ResetTime(),
			Remaining: g.limiter.Remaining(),
			Limit:     g.limiter.Limit(),
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{StatusCode: ghErr.Response.StatusCode, Message: ghErr.Message}
		if ghErr.Response.Request != nil {
			apiErr.URL = redactURL(ghErr.Response.Request.URL)
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
