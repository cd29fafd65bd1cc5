package report

import (
	"io"
	"strings"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
)

// Writer defines the interface for digest output.
// Implementations write search results in various formats.
type Writer interface {
	// Write outputs the digest to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(digest *model.Digest) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the digest to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(digest *model.Digest) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(digest)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for digest writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Header returns the first line of a rendered digest.
func Header(query string) string {
	return "🔎 Results for '" + query + "'"
}

// Markdown renders digest as link-formatted chat text.
func Markdown(digest *model.Digest) (string, error) {
	var sb strings.Builder
	if _, err := NewMarkdownWriter(&sb).Write(digest); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Plain renders digest as text without formatting markers.
func Plain(digest *model.Digest) (string, error) {
	var sb strings.Builder
	if _, err := NewSimpleWriter(&sb).Write(digest); err != nil {
		return "", err
	}
	return sb.String(), nil
}
