// Package report renders a model.KeywordReport.
//
// This package contains writers for different output formats:
//   - JSONWriter: the page to keywords object, the primary output format
//   - MarkdownWriter: a human-readable report with summary tables
//   - SummaryWriter: a short plain-text summary for terminal display
//
// Writers implement the Writer interface, so they can be used
// interchangeably and composed with MultiWriter.
package report
