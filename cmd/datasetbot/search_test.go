package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/catalog"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/config"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/log"
)

// newCatalogServers starts fake Hugging Face and GitHub APIs and returns a
// config pointing at them. Kaggle has no credentials and is never called.
func newCatalogServers(t *testing.T) *config.Config {
	t.Helper()

	hf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/datasets" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"scikit-learn/iris"},{"id":"mstz/iris"}]`))
	}))
	t.Cleanup(hf.Close)

	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_count":1,"items":[{"name":"iris","full_name":"uci/iris","html_url":"https://github.com/uci/iris"}]}`))
	}))
	t.Cleanup(gh.Close)

	kaggle := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("unexpected Kaggle request")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(kaggle.Close)

	cfg := config.NewConfig()
	cfg.Kaggle = config.KaggleConfig{BaseURL: kaggle.URL}
	cfg.HuggingFace = config.TokenConfig{BaseURL: hf.URL}
	cfg.GitHub = config.TokenConfig{BaseURL: gh.URL}
	return cfg
}

func TestRunSearch(t *testing.T) {
	t.Parallel()

	t.Run("plain", func(t *testing.T) {
		t.Parallel()

		cfg := newCatalogServers(t)
		var buf bytes.Buffer
		if err := runSearch(context.Background(), cfg, log.Discard(), searchRequest{query: "iris", format: formatPlain}, &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		wantOrder := []string{
			"🔎 Results for 'iris'",
			"1. 🤗 scikit-learn/iris",
			"https://huggingface.co/datasets/scikit-learn/iris",
			"2. 🤗 mstz/iris",
			"3. 💻 uci/iris",
			"https://github.com/uci/iris",
		}
		last := -1
		for _, want := range wantOrder {
			idx := strings.Index(output, want)
			if idx < 0 {
				t.Fatalf("expected %q in output %q", want, output)
			}
			if idx < last {
				t.Errorf("expected %q after previous entries in %q", want, output)
			}
			last = idx
		}
		if strings.Contains(output, "](") {
			t.Errorf("plain output contains link markup: %q", output)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		cfg := newCatalogServers(t)
		var buf bytes.Buffer
		if err := runSearch(context.Background(), cfg, log.Discard(), searchRequest{query: "iris", format: formatJSON}, &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			Query   string `json:"query"`
			Results []struct {
				Platform string `json:"platform"`
				URL      string `json:"url"`
			} `json:"results"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", buf.String(), err)
		}
		if got.Query != "iris" || len(got.Results) != 3 {
			t.Fatalf("unexpected digest %+v", got)
		}
		if got.Results[2].Platform != "GitHub" {
			t.Errorf("expected GitHub last, got %+v", got.Results)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		cfg := newCatalogServers(t)
		var buf bytes.Buffer
		if err := runSearch(context.Background(), cfg, log.Discard(), searchRequest{query: "iris", format: formatMarkdown}, &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[uci/iris](https://github.com/uci/iris)") {
			t.Errorf("expected markdown link, got %q", buf.String())
		}
	})

	t.Run("respects the result limit", func(t *testing.T) {
		t.Parallel()

		cfg := newCatalogServers(t)
		cfg.MaxResults = 1
		var buf bytes.Buffer
		if err := runSearch(context.Background(), cfg, log.Discard(), searchRequest{query: "iris", format: formatPlain}, &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "2.") {
			t.Errorf("expected a single result, got %q", buf.String())
		}
	})

	t.Run("searches only the selected catalogs", func(t *testing.T) {
		t.Parallel()

		cfg := newCatalogServers(t)
		var buf bytes.Buffer
		req := searchRequest{query: "iris", format: formatPlain, catalogs: []string{"GITHUB"}}
		if err := runSearch(context.Background(), cfg, log.Discard(), req, &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "1. 💻 uci/iris") || strings.Contains(buf.String(), "🤗") {
			t.Errorf("expected only the GitHub result, got %q", buf.String())
		}
	})

	t.Run("rejects an unknown catalog", func(t *testing.T) {
		t.Parallel()

		cfg := newCatalogServers(t)
		req := searchRequest{query: "iris", format: formatPlain, catalogs: []string{"zenodo"}}
		err := runSearch(context.Background(), cfg, log.Discard(), req, &bytes.Buffer{})
		if !errors.Is(err, catalog.ErrUnknownClient) {
			t.Errorf("expected ErrUnknownClient, got %v", err)
		}
	})

	t.Run("writes the output file too", func(t *testing.T) {
		t.Parallel()

		cfg := newCatalogServers(t)
		path := filepath.Join(t.TempDir(), "iris.json")
		var buf bytes.Buffer
		req := searchRequest{query: "iris", format: formatJSON, output: path}
		if err := runSearch(context.Background(), cfg, log.Discard(), req, &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		saved, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("output file not written: %v", err)
		}
		if buf.Len() == 0 || string(saved) != buf.String() {
			t.Errorf("expected file to match stdout\nfile:   %q\nstdout: %q", saved, buf.String())
		}
	})

	t.Run("logs the searched catalogs and result mix", func(t *testing.T) {
		t.Parallel()

		cfg := newCatalogServers(t)
		var logs bytes.Buffer
		req := searchRequest{query: "iris", format: formatPlain, catalogs: []string{"huggingface", "github"}}
		if err := runSearch(context.Background(), cfg, log.New(&logs, "text", false), req, &bytes.Buffer{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := logs.String()
		for _, want := range []string{"catalogs=\"[HuggingFace GitHub]\"", "truncated=false", "by_platform.huggingface=2", "by_platform.github=1"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %s in log %q", want, out)
			}
		}
	})

	t.Run("rejects an empty query", func(t *testing.T) {
		t.Parallel()

		if err := runSearch(context.Background(), config.NewConfig(), log.Discard(), searchRequest{query: "", format: formatPlain}, &bytes.Buffer{}); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestNewSearchCmd(t *testing.T) {
	t.Parallel()

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"search", "--json", "--markdown", "iris"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("requires a query", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"search"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected an error")
		}
	})
}
