package catalog

import (
	"context"
	"log/slog"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/config"
)

// NewDefaultRegistry builds the Kaggle, Hugging Face and GitHub clients from
// cfg, in that order, sharing one HTTP client. Kaggle's availability
// self-check runs here, once.
func NewDefaultRegistry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	httpClient, err := NewHTTPClient(HTTPOptions{
		Timeout:      cfg.CatalogTimeout,
		UserAgent:    cfg.UserAgent,
		ProxyAddress: cfg.ProxyAddress,
	})
	if err != nil {
		return nil, err
	}

	kaggle, err := NewKaggle(ctx, KaggleCredentials{
		Username: cfg.Kaggle.Username,
		Key:      cfg.Kaggle.Key,
	}, Options{
		BaseURL:    cfg.Kaggle.BaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	huggingFace, err := NewHuggingFace(cfg.HuggingFace.Token, Options{
		BaseURL:    cfg.HuggingFace.BaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	github, err := NewGitHub(cfg.GitHub.Token, Options{
		BaseURL:    cfg.GitHub.BaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return NewRegistry(kaggle, huggingFace, github)
}
