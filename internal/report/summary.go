package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/max-plutonium/webtools/internal/model"
)

// SummaryWriter outputs a short human-readable summary for the terminal.
type SummaryWriter struct {
	baseWriter

	// topKeywords caps the keyword list. 0 lists every keyword.
	topKeywords int

	// showPages lists every matched page with its keywords.
	showPages bool
}

// SummaryWriterOption configures a SummaryWriter.
type SummaryWriterOption func(*SummaryWriter)

// WithTopKeywords limits the keyword list to the n most frequent.
func WithTopKeywords(n int) SummaryWriterOption {
	return func(w *SummaryWriter) {
		w.topKeywords = n
	}
}

// WithPages enables the per-page listing.
func WithPages(show bool) SummaryWriterOption {
	return func(w *SummaryWriter) {
		w.showPages = show
	}
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer, opts ...SummaryWriterOption) *SummaryWriter {
	w := &SummaryWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary.
func (w *SummaryWriter) Write(report *model.KeywordReport) (int, error) {
	if report == nil {
		return 0, ErrNilReport
	}

	var sb strings.Builder
	rule := strings.Repeat("-", 60)

	if report.ID != "" {
		fmt.Fprintf(&sb, "Run:            %s\n", report.ID)
	}
	fmt.Fprintf(&sb, "Site:           %s\n", report.Site)
	if !report.StartedAt.IsZero() {
		fmt.Fprintf(&sb, "Started:        %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(&sb, "Pages visited:  %d\n", report.PagesVisited)
	fmt.Fprintf(&sb, "Pages matched:  %d\n", len(report.Pages))
	if report.Failed() {
		fmt.Fprintf(&sb, "Status:         FAILED - %s\n", report.Error)
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	counts := report.KeywordCounts()
	if len(counts) > 0 {
		sb.WriteString(rule + "\n")
		sb.WriteString("KEYWORDS\n")
		for i, c := range counts {
			if w.topKeywords > 0 && i == w.topKeywords {
				fmt.Fprintf(&sb, "  ... and %d more\n", len(counts)-i)
				break
			}
			fmt.Fprintf(&sb, "  %-30s %d\n", c.Keyword, c.Pages)
		}
	}

	if w.showPages && len(report.Pages) > 0 {
		sb.WriteString(rule + "\n")
		sb.WriteString("PAGES\n")
		for _, path := range report.Paths() {
			fmt.Fprintf(&sb, "  %s\n    %s\n", path, strings.Join(report.Pages[path], ", "))
		}
	}

	return io.WriteString(w.output, sb.String())
}
