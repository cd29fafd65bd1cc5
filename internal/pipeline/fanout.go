package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/catalog"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/log"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
)

// DefaultCallTimeout bounds a single catalog call. A call may make more than
// one backend request, so it is longer than a single request's timeout.
const DefaultCallTimeout = 20 * time.Second

// Fanout runs one search against several catalogs concurrently.
//
// Results land in pre-allocated slots indexed by client position, so the
// returned lists follow the order of the clients slice no matter which call
// finishes first. A call that exceeds the timeout or panics contributes an
// empty list; Fanout itself never fails.
type Fanout struct {
	// callTimeout bounds each client's Search call.
	callTimeout time.Duration

	// concurrency is the maximum number of simultaneous calls. Zero means one per client.
	concurrency int

	// logger is used for fan-out logging.
	logger *slog.Logger
}

// FanoutOption configures a Fanout.
type FanoutOption func(*Fanout)

// WithFanoutLogger sets a custom logger.
func WithFanoutLogger(logger *slog.Logger) FanoutOption {
	return func(f *Fanout) {
		f.logger = logger
	}
}

// WithCallTimeout sets the per-call timeout.
// Non-positive values keep the default.
func WithCallTimeout(d time.Duration) FanoutOption {
	return func(f *Fanout) {
		if d > 0 {
			f.callTimeout = d
		}
	}
}

// WithConcurrency caps the number of simultaneous calls.
// Non-positive values keep the default of one goroutine per client.
func WithConcurrency(n int) FanoutOption {
	return func(f *Fanout) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// NewFanout creates a Fanout.
func NewFanout(opts ...FanoutOption) *Fanout {
	f := &Fanout{
		callTimeout: DefaultCallTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = log.Discard()
	}

	return f
}

// Search calls every client with query and limit and returns one list per
// client, in client order. Every returned list is non-nil.
func (f *Fanout) Search(ctx context.Context, clients []catalog.Client, query string, limit int) [][]model.SearchResult {
	slots := make([][]model.SearchResult, len(clients))
	startTime := time.Now()

	var g errgroup.Group
	if f.concurrency > 0 {
		g.SetLimit(f.concurrency)
	}

	for i, client := range clients {
		g.Go(func() error {
			// Each goroutine writes only its own slot.
			slots[i] = f.call(ctx, client, query, limit)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // calls never return errors

	f.logger.DebugContext(ctx, "fan-out complete",
		"clients", len(clients),
		"elapsed", time.Since(startTime),
	)

	return slots
}

// callResult carries a client's answer out of its goroutine.
type callResult struct {
	results []model.SearchResult
	err     error
}

// call runs one client's search under its own deadline.
//
// The search runs on a separate goroutine so a client that ignores context
// cancellation still cannot hold the caller past the deadline; its late
// answer is dropped.
func (f *Fanout) call(ctx context.Context, client catalog.Client, query string, limit int) []model.SearchResult {
	callCtx, cancel := context.WithTimeout(ctx, f.callTimeout)
	defer cancel()

	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		done <- callResult{results: client.Search(callCtx, query, limit)}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			f.logger.ErrorContext(ctx, "catalog search panicked",
				"backend", client.Name(),
				"error", res.err,
			)
			return []model.SearchResult{}
		}
		if res.results == nil {
			return []model.SearchResult{}
		}
		return res.results
	case <-callCtx.Done():
		f.logger.WarnContext(ctx, "catalog search timed out",
			"backend", client.Name(),
			"timeout", f.callTimeout,
			"error", callCtx.Err(),
		)
		return []model.SearchResult{}
	}
}
