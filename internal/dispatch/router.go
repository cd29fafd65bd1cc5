package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/archive"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/log"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
	"github.com/NisargParmar1709/ML-dataset-bot/internal/report"
)

// BundleKeyword is the exact message text that requests a bundle.
const BundleKeyword = "MLparset"

// User-facing notices.
const (
	NoticeCompressing      = "📦 Compressing content..."
	NoticeUploading        = "📤 Uploading bundle..."
	NoticeFailure          = "❌ Error processing request. Please try again."
	NoticeDirectoryMissing = "❌ Temp directory is missing."
	NoticeNothingToBundle  = "📂 Temp folder is empty. No files to send."
	NoticeNoResults        = report.NoResultsText
	PlainFallbackPrefix    = "⚠️ formatting error, but here are the results:\n"
)

// SearchingNotice is sent before a search starts.
func SearchingNotice(query string) string {
	return "🔍 Searching for '" + query + "'..."
}

// Kind is the classification of an inbound message.
type Kind int

const (
	// KindIgnore is blank text; nothing is sent.
	KindIgnore Kind = iota
	// KindBundle is the bundle keyword.
	KindBundle
	// KindSearch is any other text, used as the query.
	KindSearch
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindBundle:
		return "bundle"
	case KindSearch:
		return "search"
	default:
		return "ignore"
	}
}

// Classify trims text and decides how to handle it. The keyword match is
// exact and case-sensitive. The returned string is the trimmed text.
func Classify(text string) (Kind, string) {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return KindIgnore, ""
	case trimmed == BundleKeyword:
		return KindBundle, trimmed
	default:
		return KindSearch, trimmed
	}
}

// Outcome is the terminal state of one request.
type Outcome int

const (
	// OutcomeIgnored means the message was blank.
	OutcomeIgnored Outcome = iota
	// OutcomeBundled means the archive was delivered.
	OutcomeBundled
	// OutcomeBundleNotice means there was nothing to bundle and the user was told so.
	OutcomeBundleNotice
	// OutcomeDeliveredRich means the formatted result list was delivered.
	OutcomeDeliveredRich
	// OutcomeDeliveredPlain means the plain fallback was delivered.
	OutcomeDeliveredPlain
	// OutcomeNoResults means no catalog returned anything.
	OutcomeNoResults
	// OutcomeFailed means the request failed and the generic notice was sent.
	OutcomeFailed
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeBundled:
		return "bundled"
	case OutcomeBundleNotice:
		return "bundle_notice"
	case OutcomeDeliveredRich:
		return "delivered_rich"
	case OutcomeDeliveredPlain:
		return "delivered_plain"
	case OutcomeNoResults:
		return "no_results"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Searcher produces a digest for a query. It never fails.
type Searcher interface {
	Search(ctx context.Context, query string) *model.Digest
}

// Bundler selects and archives the staging directory's files.
type Bundler interface {
	Plan(dir string) (*archive.Plan, error)
	Bundle(ctx context.Context, plan *archive.Plan, deliver archive.DeliverFunc) (*archive.Summary, error)
}

// Router handles inbound messages.
// It holds no per-request state and is safe for concurrent use.
type Router struct {
	searcher   Searcher
	bundler    Bundler
	stagingDir string
	logger     *slog.Logger
	newID      func() string
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithRequestIDs sets the request id generator. The default is a random UUID.
func WithRequestIDs(gen func() string) RouterOption {
	return func(r *Router) {
		r.newID = gen
	}
}

// NewRouter creates a Router serving stagingDir for bundles.
func NewRouter(searcher Searcher, bundler Bundler, stagingDir string, opts ...RouterOption) *Router {
	r := &Router{
		searcher:   searcher,
		bundler:    bundler,
		stagingDir: stagingDir,
		newID:      uuid.NewString,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = log.Discard()
	}

	return r
}

// Handle serves one inbound message. It never panics and never returns an
// error; logAttrs are attached to every log line of the request.
func (r *Router) Handle(ctx context.Context, conv Conversation, text string, logAttrs ...any) (outcome Outcome) {
	kind, body := Classify(text)
	if kind == KindIgnore {
		return OutcomeIgnored
	}

	logger := r.logger.With(logAttrs...).With("request_id", r.newID(), "kind", kind.String())

	req := &request{conv: conv, logger: logger}
	defer func() {
		if v := recover(); v != nil {
			perr := &PanicError{Value: v, Stack: debug.Stack()}
			logger.ErrorContext(ctx, "request panicked", "error", perr, "stack", string(perr.Stack))
			req.fail(ctx)
			outcome = OutcomeFailed
		}
		logger.InfoContext(ctx, "request finished", "outcome", outcome.String())
	}()

	switch kind {
	case KindBundle:
		return r.bundle(ctx, req)
	default:
		return r.search(ctx, req, body)
	}
}

// request is the per-message state shared by the pipeline steps.
type request struct {
	conv   Conversation
	logger *slog.Logger

	// statusID is the message edited as the bundle progresses; 0 if none.
	statusID int
}

// fail tells the user the request failed, replacing the status message when there is one.
func (q *request) fail(ctx context.Context) {
	if q.statusID != 0 {
		if err := q.conv.EditText(ctx, q.statusID, NoticeFailure); err == nil {
			return
		}
	}
	if _, err := q.conv.SendText(ctx, NoticeFailure); err != nil {
		q.logger.ErrorContext(ctx, "failed to send failure notice", "error", err)
	}
}

// notify sends a plain notice and logs a failed send.
func (q *request) notify(ctx context.Context, text string) {
	if _, err := q.conv.SendText(ctx, text); err != nil {
		q.logger.ErrorContext(ctx, "failed to send notice", "notice", text, "error", err)
	}
}

// status edits the status message, or sends text if there is none.
func (q *request) status(ctx context.Context, text string) {
	if q.statusID == 0 {
		q.notify(ctx, text)
		return
	}
	if err := q.conv.EditText(ctx, q.statusID, text); err != nil {
		q.logger.WarnContext(ctx, "failed to update status message", "error", err)
	}
}

func (r *Router) bundle(ctx context.Context, req *request) Outcome {
	plan, err := r.bundler.Plan(r.stagingDir)
	switch {
	case errors.Is(err, archive.ErrDirectoryMissing):
		req.logger.InfoContext(ctx, "bundle refused", "reason", err)
		req.notify(ctx, NoticeDirectoryMissing)
		return OutcomeBundleNotice
	case errors.Is(err, archive.ErrNothingToBundle):
		req.logger.InfoContext(ctx, "bundle refused", "reason", err)
		req.notify(ctx, NoticeNothingToBundle)
		return OutcomeBundleNotice
	case err != nil:
		req.logger.ErrorContext(ctx, "failed to plan bundle", "error", err)
		req.fail(ctx)
		return OutcomeFailed
	}

	req.logger.InfoContext(ctx, "bundle requested", "files", len(plan.Files))

	id, err := req.conv.SendText(ctx, NoticeCompressing)
	if err != nil {
		req.logger.WarnContext(ctx, "failed to send status message", "error", err)
	}
	req.statusID = id

	summary, err := r.bundler.Bundle(ctx, plan, func(ctx context.Context, s *archive.Summary) error {
		req.status(ctx, NoticeUploading)
		for _, a := range s.Artifacts {
			doc := Document{Name: a.Name, Path: a.Path, Caption: Caption(s, a)}
			if err := req.conv.SendDocument(ctx, doc); err != nil {
				return fmt.Errorf("send %s: %w", a.Name, err)
			}
		}
		return nil
	})

	switch {
	case errors.Is(err, archive.ErrNothingToBundle):
		req.logger.InfoContext(ctx, "no planned file could be read", "error", err)
		req.status(ctx, NoticeNothingToBundle)
		return OutcomeBundleNotice
	case err != nil:
		req.logger.ErrorContext(ctx, "bundle failed", "error", err)
		req.fail(ctx)
		return OutcomeFailed
	}

	req.logger.InfoContext(ctx, "bundle delivered",
		"files", summary.FileCount(),
		"skipped", len(summary.Skipped),
		"split", summary.Split(),
		"parts", len(summary.Artifacts),
		"bytes", summary.ArchiveSize,
	)
	return OutcomeBundled
}

// Caption returns the attachment caption for artifact a of summary s.
func Caption(s *archive.Summary, a archive.Artifact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 MLparset Dump\n✅ Files: %d", s.FileCount())
	if n := len(s.Skipped); n > 0 {
		fmt.Fprintf(&sb, "\n⚠️ Skipped: %d", n)
	}
	if s.Split() && a.Part > 0 {
		fmt.Fprintf(&sb, "\n🧩 Part %d/%d", a.Part, len(s.Artifacts))
	}
	return sb.String()
}

func (r *Router) search(ctx context.Context, req *request, query string) Outcome {
	req.logger.InfoContext(ctx, "search requested", "query", query)
	req.notify(ctx, SearchingNotice(query))

	digest := r.searcher.Search(ctx, query)
	if digest.IsEmpty() {
		req.notify(ctx, NoticeNoResults)
		return OutcomeNoResults
	}

	rich, err := report.Markdown(digest)
	if err == nil {
		err = req.conv.SendMarkdown(ctx, rich)
		if err == nil {
			return OutcomeDeliveredRich
		}
	}
	req.logger.WarnContext(ctx, "falling back to plain text",
		"error", &DeliveryError{Format: "markdown", Err: err},
	)

	plain, err := report.Plain(digest)
	if err == nil {
		_, err = req.conv.SendText(ctx, PlainFallbackPrefix+plain)
	}
	if err != nil {
		req.logger.ErrorContext(ctx, "plain delivery failed",
			"error", &DeliveryError{Format: "plain", Err: err},
		)
		req.fail(ctx)
		return OutcomeFailed
	}
	return OutcomeDeliveredPlain
}
