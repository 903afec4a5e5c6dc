package report

import (
	"encoding/json"
	"io"

	"github.com/max-plutonium/webtools/internal/model"
)

// JSONWriter outputs the page to keywords object as JSON.
// Only the Pages map is written; keys are sorted by encoding/json, so the
// output is deterministic.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report's page map as a single JSON object.
// A report without matches produces "{}".
func (w *JSONWriter) Write(report *model.KeywordReport) (int, error) {
	if report == nil {
		return 0, ErrNilReport
	}

	pages := report.Pages
	if pages == nil {
		pages = map[string][]string{}
	}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(pages, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(pages)
	}
	if err != nil {
		return 0, err
	}

	return w.output.Write(data)
}
