package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/model"
)

// JSONWriter outputs digests as a single JSON document for scripting.
type JSONWriter struct {
	baseWriter

	// indent is the per-level indentation; empty means compact output.
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent.
func WithIndent(indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = indent
	}
}

// WithPrettyPrint indents nested values with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the digest followed by a newline. A nil digest, or one
// without results, is written with an empty result array.
func (w *JSONWriter) Write(digest *model.Digest) (int, error) {
	out := model.Digest{Results: []model.SearchResult{}}
	if digest != nil {
		out.Query = digest.Query
		out.Available = digest.Available
		if digest.Results != nil {
			out.Results = digest.Results
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Keep '&' in result URLs unescaped.
	enc.SetEscapeHTML(false)
	enc.SetIndent("", w.indent)
	if err := enc.Encode(out); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
