package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
)

// NoResultsText is shown when a digest has nothing to list.
const NoResultsText = "❌ No results found. Try a broader keyword."

// formattingMarkers are stripped from plain output.
var formattingMarkers = strings.NewReplacer("*", "", "`", "")

// SimpleWriter outputs the digest as plain text.
// It keeps the order and numbering of MarkdownWriter but emits no markup,
// so the result is safe to send without a parse mode.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the digest in plain text format.
func (w *SimpleWriter) Write(digest *model.Digest) (int, error) {
	var sb strings.Builder

	sb.WriteString(StripFormatting(Header(digestQuery(digest))))
	sb.WriteString("\n\n")

	if digest.IsEmpty() {
		sb.WriteString(NoResultsText)
		sb.WriteString("\n")
	} else {
		for i, r := range digest.Results {
			fmt.Fprintf(&sb, "%d. %s %s\n", i+1, r.Platform().Icon(), StripFormatting(titleOf(r)))
			sb.WriteString(r.URL())
			sb.WriteString("\n")
		}
	}

	return io.WriteString(w.output, sb.String())
}

// StripFormatting removes Markdown emphasis and code markers from s.
func StripFormatting(s string) string {
	return formattingMarkers.Replace(s)
}

func digestQuery(digest *model.Digest) string {
	if digest == nil {
		return ""
	}
	return digest.Query
}

func titleOf(r model.SearchResult) string {
	if r.Title() == "" {
		return "Untitled"
	}
	return r.Title()
}
