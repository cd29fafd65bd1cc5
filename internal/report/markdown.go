package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
)

// MarkdownWriter renders a digest as Telegram-style Markdown.
//
// Each entry is a numbered line holding the platform icon and the title as
// a link, followed by the raw URL as a code span on its own line:
//
//	🔎 Results for 'iris'
//
//	1. 🏆 [Iris Species](https://www.kaggle.com/datasets/uciml/iris)
//	`https://www.kaggle.com/datasets/uciml/iris`
//
// Markup inside the code span is not parsed, so underscores in URLs are safe.
// Titles are not escaped. A title that breaks the markup makes the transport
// reject the message, and the caller falls back to SimpleWriter output.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the digest in Markdown format.
func (w *MarkdownWriter) Write(digest *model.Digest) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.PlainText(Header(digestQuery(digest)))
	md.PlainText("")

	if digest.IsEmpty() {
		md.PlainText(NoResultsText)
	} else {
		for i, r := range digest.Results {
			md.PlainTextf("%d. %s %s", i+1, r.Platform().Icon(), markdown.Link(titleOf(r), r.URL()))
			md.PlainText(markdown.Code(codeSafeURL(r.URL())))
		}
	}

	return len(md.String()), md.Build()
}

// codeSafeURL percent-encodes backticks, which would end the code span.
func codeSafeURL(u string) string {
	return strings.ReplaceAll(u, "`", "%60")
}
