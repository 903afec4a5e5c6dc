package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/max-plutonium/webtools/internal/model"
)

// maxChartSlices caps the keyword pie chart; the rest are not charted.
const maxChartSlices = 10

// MarkdownWriter outputs reports in Markdown format for sharing and review.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.KeywordReport) (int, error) {
	if report == nil {
		return 0, ErrNilReport
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeKeywords(md, report)
	w.writePages(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.KeywordReport) {
	md.H1("Keyword Report")
	md.PlainText("")

	limit := "unlimited"
	if report.PageLimit > 0 {
		limit = strconv.Itoa(report.PageLimit)
	}

	rows := [][]string{
		{"Site", "`" + report.Site + "`"},
		{"Page Limit", limit},
		{"Pages Visited", strconv.Itoa(report.PagesVisited)},
		{"Pages With Matches", strconv.Itoa(len(report.Pages))},
		{"Total Matches", strconv.Itoa(report.TotalMatches())},
	}
	if !report.StartedAt.IsZero() {
		rows = append(rows, []string{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")})
	}
	if d := report.Duration(); d > 0 {
		rows = append(rows, []string{"Duration", d.Round(time.Millisecond).String()})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.Failed() {
		md.Cautionf("The crawl stopped early: %s", report.Error)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeKeywords(md *markdown.Markdown, report *model.KeywordReport) {
	md.H2("Keywords")
	md.PlainText("")

	counts := report.KeywordCounts()
	if len(counts) == 0 {
		md.Note("No keyword was found on any page.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Keyword, strconv.Itoa(c.Pages)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Keyword", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, counts)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts []model.KeywordCount) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages per Keyword"),
		piechart.WithShowData(true),
	)
	for i, c := range counts {
		if i == maxChartSlices {
			break
		}
		chart.LabelAndIntValue(c.Keyword, uint64(c.Pages)) //nolint:gosec // page counts are non-negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.KeywordReport) {
	md.H2("Pages")
	md.PlainText("")

	paths := report.Paths()
	if len(paths) == 0 {
		md.PlainText("No matching pages.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(paths))
	for i, path := range paths {
		rows[i] = []string{"`" + path + "`", strings.Join(report.Pages[path], ", ")}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Path", "Keywords"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [webtools](https://github.com/max-plutonium/webtools)*")
}
