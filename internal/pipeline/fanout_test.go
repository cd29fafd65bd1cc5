package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/catalog"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
)

// fakeClient is a catalog.Client with scripted behavior.
type fakeClient struct {
	name     string
	platform model.Platform
	delay    time.Duration
	results  []model.SearchResult
	panics   bool
	ignore   bool // keep running after the context is done
	calls    atomic.Int32
	gotLimit atomic.Int32
}

func (f *fakeClient) Name() string             { return f.name }
func (f *fakeClient) Platform() model.Platform { return f.platform }

func (f *fakeClient) Search(ctx context.Context, _ string, limit int) []model.SearchResult {
	f.calls.Add(1)
	f.gotLimit.Store(int32(limit))
	if f.panics {
		panic("backend exploded")
	}
	if f.delay > 0 {
		if f.ignore {
			time.Sleep(f.delay)
		} else {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return []model.SearchResult{}
			}
		}
	}
	return f.results
}

func one(p model.Platform, title string) []model.SearchResult {
	return []model.SearchResult{model.NewSearchResult(p, title, "https://example.org/"+title)}
}

// TestFanoutNew tests the Fanout constructor.
func TestFanoutNew(t *testing.T) {
	t.Parallel()

	t.Run("creates fanout with defaults", func(t *testing.T) {
		t.Parallel()

		f := NewFanout()
		if f.callTimeout != DefaultCallTimeout {
			t.Errorf("expected default timeout %v, got %v", DefaultCallTimeout, f.callTimeout)
		}
		if f.concurrency != 0 {
			t.Errorf("expected unlimited concurrency, got %d", f.concurrency)
		}
		if f.logger == nil {
			t.Error("expected a logger")
		}
	})

	t.Run("ignores non-positive options", func(t *testing.T) {
		t.Parallel()

		f := NewFanout(WithCallTimeout(0), WithConcurrency(-1))
		if f.callTimeout != DefaultCallTimeout || f.concurrency != 0 {
			t.Errorf("expected defaults, got timeout=%v concurrency=%d", f.callTimeout, f.concurrency)
		}
	})

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()

		f := NewFanout(WithCallTimeout(time.Second), WithConcurrency(2))
		if f.callTimeout != time.Second || f.concurrency != 2 {
			t.Errorf("options not applied: timeout=%v concurrency=%d", f.callTimeout, f.concurrency)
		}
	})
}

// TestFanoutSearch tests ordering and failure isolation.
func TestFanoutSearch(t *testing.T) {
	t.Parallel()

	t.Run("keeps client order when the first client is slowest", func(t *testing.T) {
		t.Parallel()

		clients := []catalog.Client{
			&fakeClient{name: "A", delay: 80 * time.Millisecond, results: one(model.PlatformKaggle, "a")},
			&fakeClient{name: "B", delay: 20 * time.Millisecond, results: one(model.PlatformHuggingFace, "b")},
			&fakeClient{name: "C", results: one(model.PlatformGitHub, "c")},
		}

		lists := NewFanout().Search(context.Background(), clients, "q", 5)
		if len(lists) != 3 {
			t.Fatalf("expected 3 lists, got %d", len(lists))
		}
		for i, want := range []string{"a", "b", "c"} {
			if len(lists[i]) != 1 || lists[i][0].Title() != want {
				t.Errorf("slot %d: expected %s, got %v", i, want, lists[i])
			}
		}
	})

	t.Run("runs calls concurrently", func(t *testing.T) {
		t.Parallel()

		clients := []catalog.Client{
			&fakeClient{name: "A", delay: 100 * time.Millisecond},
			&fakeClient{name: "B", delay: 100 * time.Millisecond},
			&fakeClient{name: "C", delay: 100 * time.Millisecond},
		}

		start := time.Now()
		_ = NewFanout().Search(context.Background(), clients, "q", 5)
		if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
			t.Errorf("expected concurrent calls, took %v", elapsed)
		}
	})

	t.Run("timed out client contributes nothing", func(t *testing.T) {
		t.Parallel()

		clients := []catalog.Client{
			&fakeClient{name: "slow", delay: time.Second, results: one(model.PlatformKaggle, "late")},
			&fakeClient{name: "fast", results: one(model.PlatformGitHub, "fast")},
		}

		lists := NewFanout(WithCallTimeout(30*time.Millisecond)).Search(context.Background(), clients, "q", 5)
		if lists[0] == nil || len(lists[0]) != 0 {
			t.Errorf("expected empty non-nil slot for timed out client, got %v", lists[0])
		}
		if len(lists[1]) != 1 {
			t.Errorf("expected fast client result, got %v", lists[1])
		}
	})

	t.Run("client ignoring cancellation does not hold the caller", func(t *testing.T) {
		t.Parallel()

		clients := []catalog.Client{
			&fakeClient{name: "stubborn", delay: 150 * time.Millisecond, ignore: true, results: one(model.PlatformKaggle, "late")},
		}

		start := time.Now()
		lists := NewFanout(WithCallTimeout(20*time.Millisecond)).Search(context.Background(), clients, "q", 5)
		if time.Since(start) > 120*time.Millisecond {
			t.Error("expected Search to return at the call deadline")
		}
		if len(lists[0]) != 0 {
			t.Errorf("expected late answer to be dropped, got %v", lists[0])
		}
		// Let the stubborn goroutine finish before the leak check.
		time.Sleep(200 * time.Millisecond)
	})

	t.Run("panicking client yields an empty list", func(t *testing.T) {
		t.Parallel()

		clients := []catalog.Client{
			&fakeClient{name: "boom", panics: true},
			&fakeClient{name: "ok", results: one(model.PlatformGitHub, "ok")},
		}

		lists := NewFanout().Search(context.Background(), clients, "q", 5)
		if lists[0] == nil || len(lists[0]) != 0 {
			t.Errorf("expected empty list for panicking client, got %v", lists[0])
		}
		if len(lists[1]) != 1 {
			t.Errorf("expected other client's result, got %v", lists[1])
		}
	})

	t.Run("nil results become empty lists", func(t *testing.T) {
		t.Parallel()

		lists := NewFanout().Search(context.Background(), []catalog.Client{&fakeClient{name: "nil"}}, "q", 5)
		if lists[0] == nil {
			t.Error("expected non-nil slot")
		}
	})

	t.Run("passes the limit to every client", func(t *testing.T) {
		t.Parallel()

		a, b := &fakeClient{name: "A"}, &fakeClient{name: "B"}
		_ = NewFanout().Search(context.Background(), []catalog.Client{a, b}, "q", 7)
		if a.gotLimit.Load() != 7 || b.gotLimit.Load() != 7 {
			t.Errorf("expected limit 7, got %d and %d", a.gotLimit.Load(), b.gotLimit.Load())
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		clients := []catalog.Client{
			&fakeClient{name: "A", delay: 40 * time.Millisecond},
			&fakeClient{name: "B", delay: 40 * time.Millisecond},
		}

		start := time.Now()
		_ = NewFanout(WithConcurrency(1)).Search(context.Background(), clients, "q", 5)
		if elapsed := time.Since(start); elapsed < 75*time.Millisecond {
			t.Errorf("expected sequential calls, took %v", elapsed)
		}
	})

	t.Run("no clients", func(t *testing.T) {
		t.Parallel()

		if lists := NewFanout().Search(context.Background(), nil, "q", 5); len(lists) != 0 {
			t.Errorf("expected no lists, got %d", len(lists))
		}
	})
}

// TestSearchPipeline tests fan-out plus aggregation.
func TestSearchPipeline(t *testing.T) {
	t.Parallel()

	t.Run("iris scenario", func(t *testing.T) {
		t.Parallel()

		reg, err := catalog.NewRegistry(
			&fakeClient{name: "Kaggle", results: []model.SearchResult{
				model.NewSearchResult(model.PlatformKaggle, "iris-dataset", "https://example.org/a/iris"),
			}},
			&fakeClient{name: "HuggingFace"},
			&fakeClient{name: "GitHub"},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		digest := NewSearchPipeline(reg).Search(context.Background(), "iris")
		if len(digest.Results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(digest.Results))
		}
		if digest.Results[0].URL() != "https://example.org/a/iris" {
			t.Errorf("unexpected result %v", digest.Results[0])
		}
		if digest.Query != "iris" {
			t.Errorf("expected query iris, got %q", digest.Query)
		}
	})

	t.Run("applies per-catalog and total limits", func(t *testing.T) {
		t.Parallel()

		many := func(p model.Platform) []model.SearchResult {
			var out []model.SearchResult
			for _, s := range []string{"1", "2", "3"} {
				out = append(out, model.NewSearchResult(p, s, "https://x/"+s))
			}
			return out
		}
		a := &fakeClient{name: "A", results: many(model.PlatformKaggle)}
		b := &fakeClient{name: "B", results: many(model.PlatformGitHub)}
		reg, err := catalog.NewRegistry(a, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		p := NewSearchPipeline(reg, WithResultsPerCatalog(3), WithMaxResults(4))
		digest := p.Search(context.Background(), "q")
		if len(digest.Results) != 4 || digest.Available != 6 {
			t.Errorf("expected 4 of 6 results, got %d of %d", len(digest.Results), digest.Available)
		}
		if a.gotLimit.Load() != 3 {
			t.Errorf("expected per-catalog limit 3, got %d", a.gotLimit.Load())
		}
		if names := p.Catalogs(); len(names) != 2 || names[0] != "A" {
			t.Errorf("unexpected catalogs %v", names)
		}
	})

	t.Run("logs truncation and result mix", func(t *testing.T) {
		t.Parallel()

		results := func(p model.Platform, n int) []model.SearchResult {
			out := make([]model.SearchResult, n)
			for i := range out {
				out[i] = model.NewSearchResult(p, "r", "https://x/r")
			}
			return out
		}
		reg, err := catalog.NewRegistry(
			&fakeClient{name: "Kaggle", results: results(model.PlatformKaggle, 3)},
			&fakeClient{name: "GitHub", results: results(model.PlatformGitHub, 3)},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		NewSearchPipeline(reg, WithLogger(logger), WithResultsPerCatalog(3), WithMaxResults(4)).Search(context.Background(), "q")

		out := buf.String()
		for _, want := range []string{"truncated=true", "by_platform.kaggle=3", "by_platform.github=1"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %s in log %q", want, out)
			}
		}
		if strings.Contains(out, "by_platform.huggingface") {
			t.Errorf("platforms without results must not be logged: %q", out)
		}
	})

	t.Run("all catalogs empty", func(t *testing.T) {
		t.Parallel()

		reg, err := catalog.NewRegistry(&fakeClient{name: "A"}, &fakeClient{name: "B"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if digest := NewSearchPipeline(reg).Search(context.Background(), "zzz"); !digest.IsEmpty() {
			t.Errorf("expected empty digest, got %v", digest.Results)
		}
	})
}
